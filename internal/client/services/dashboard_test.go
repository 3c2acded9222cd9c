package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_LoadsAllThree(t *testing.T) {
	fc := &fakeClient{
		Models: []models.ModelRecord{
			{ID: 2, Filename: "b.pkl", UploadDate: "2025-06-02T10:00:00", HighRisk: true},
			{ID: 1, Filename: "a.h5", UploadDate: "2025-06-01T10:00:00", HighRisk: true},
		},
		Vulns: []models.Vulnerability{
			{Type: "static", Severity: "High"},
			{Severity: "critical"},
		},
		HighRisk: []models.ModelRecord{{ID: 2}},
	}
	s := NewDashboardService(fc, nopLog())

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"models", "vulnerabilities", "high-risk-models"}, fc.calls())

	assert.Equal(t, 2, snap.Summary.ModelsScanned)
	assert.Equal(t, 2, snap.Summary.VulnerabilitiesFound)
	assert.Equal(t, 1, snap.Summary.HighRiskModelsCount, "count comes from the high-risk endpoint")
	assert.Equal(t, "2025-06-02", snap.Summary.LastScanDate)
	assert.Equal(t, 1, snap.Summary.SeverityBreakdown[models.SeverityCritical])
}

func TestDashboardService_PartialFailure(t *testing.T) {
	boom := errors.New("boom")
	fc := &fakeClient{
		Models:      []models.ModelRecord{{ID: 1, HighRisk: true}, {ID: 2, HighRisk: true}, {ID: 3}},
		VulnsErr:    client.ErrUnavailable,
		HighRiskErr: boom,
	}
	s := NewDashboardService(fc, nopLog())

	snap, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.ErrorIs(t, err, boom)

	assert.Len(t, snap.Models, 3)
	assert.Empty(t, snap.Vulnerabilities)
	assert.NotNil(t, snap.Vulnerabilities)
	assert.Equal(t, 0, snap.Summary.VulnerabilitiesFound)
	assert.Equal(t, 2, snap.Summary.HighRiskModelsCount, "falls back to the HighRisk flags")
}

func TestDashboardService_AllFail(t *testing.T) {
	fc := &fakeClient{ModelsErr: client.ErrUnavailable, VulnsErr: client.ErrUnavailable, HighRiskErr: client.ErrUnavailable}

	snap, err := NewDashboardService(fc, nopLog()).Load(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, "N/A", snap.Summary.LastScanDate)
	assert.Equal(t, 0, snap.Summary.ModelsScanned)
	assert.Empty(t, snap.Summary.RecentScans)
}
