package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/dashboard"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DashboardSnapshot is everything the dashboard screen shows.
type DashboardSnapshot struct {
	Models          []models.ModelRecord
	Vulnerabilities []models.Vulnerability
	HighRiskModels  []models.ModelRecord
	Summary         dashboard.Summary
}

type DashboardService struct {
	client client.Client
	log    logging.Logger
}

func NewDashboardService(c client.Client, log logging.Logger) *DashboardService {
	return &DashboardService{client: c, log: log}
}

// Load fetches models, vulnerabilities and high-risk models concurrently.
// Each fetch fills its own field; a failed fetch leaves its list empty and
// is reported in the joined error while the others still populate the
// snapshot.
//
// The high-risk count comes from the high-risk endpoint when it answered,
// otherwise from the HighRisk flags of the models.
func (s *DashboardService) Load(ctx context.Context) (DashboardSnapshot, error) {
	var (
		snap                         DashboardSnapshot
		modelsErr, vulnsErr, highErr error
		g                            errgroup.Group
	)

	// Fetch errors are kept per field and joined below. Returning them from
	// the group would surface only the first one.
	g.Go(func() error {
		snap.Models, modelsErr = s.client.ListModels(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Vulnerabilities, vulnsErr = s.client.ListVulnerabilities(ctx)
		return nil
	})
	g.Go(func() error {
		snap.HighRiskModels, highErr = s.client.ListHighRiskModels(ctx)
		return nil
	})
	_ = g.Wait() // always nil

	if modelsErr != nil {
		snap.Models = []models.ModelRecord{}
		modelsErr = fmt.Errorf("models: %w", modelsErr)
	}
	if vulnsErr != nil {
		snap.Vulnerabilities = []models.Vulnerability{}
		vulnsErr = fmt.Errorf("vulnerabilities: %w", vulnsErr)
	}
	if highErr != nil {
		snap.HighRiskModels = []models.ModelRecord{}
		highErr = fmt.Errorf("high-risk models: %w", highErr)
	}

	snap.Summary = dashboard.Summarize(snap.Models, snap.Vulnerabilities)
	if highErr == nil {
		snap.Summary.HighRiskModelsCount = len(snap.HighRiskModels)
	}

	err := errors.Join(modelsErr, vulnsErr, highErr)
	if err != nil {
		s.log.Warn(ctx, "dashboard partially loaded", "error", err)
	}
	return snap, err
}
