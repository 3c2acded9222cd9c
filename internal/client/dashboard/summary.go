// Package dashboard derives the dashboard figures from the model and
// vulnerability lists served by the scan API.
package dashboard

import (
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/common"
)

// RecentScansLimit caps the recent scans table.
const RecentScansLimit = 5

// TypeCount is one bucket of the type breakdown.
type TypeCount struct {
	Type  string
	Count int
}

type Summary struct {
	ModelsScanned        int
	VulnerabilitiesFound int
	HighRiskModelsCount  int
	LastScanDate         string

	// SeverityBreakdown always holds all four severities.
	SeverityBreakdown map[models.Severity]int

	// TypeBreakdown is ordered by first occurrence in the input.
	TypeBreakdown []TypeCount

	// RecentScans is a prefix of the model list in received order.
	RecentScans []models.ModelRecord
}

// Summarize computes a Summary. It is deterministic and does not modify its
// inputs. HighRiskModelsCount counts the HighRisk flags of models.
func Summarize(ms []models.ModelRecord, vulns []models.Vulnerability) Summary {
	s := Summary{
		ModelsScanned:        len(ms),
		VulnerabilitiesFound: len(vulns),
		LastScanDate:         common.NotAvailable,
		SeverityBreakdown:    make(map[models.Severity]int, len(models.Severities)),
		TypeBreakdown:        []TypeCount{},
		RecentScans:          make([]models.ModelRecord, 0, min(RecentScansLimit, len(ms))),
	}
	for _, sev := range models.Severities {
		s.SeverityBreakdown[sev] = 0
	}

	for _, m := range ms {
		if m.HighRisk {
			s.HighRiskModelsCount++
		}
	}
	if len(ms) > 0 {
		s.LastScanDate = DateOf(ms[0].UploadDate)
	}
	s.RecentScans = append(s.RecentScans, ms[:min(RecentScansLimit, len(ms))]...)

	index := make(map[string]int)
	for _, v := range vulns {
		s.SeverityBreakdown[models.ParseSeverity(v.Severity)]++

		t := models.TypeOf(v)
		if i, ok := index[t]; ok {
			s.TypeBreakdown[i].Count++
			continue
		}
		index[t] = len(s.TypeBreakdown)
		s.TypeBreakdown = append(s.TypeBreakdown, TypeCount{Type: t, Count: 1})
	}

	return s
}

// DateOf returns the calendar date of an ISO-8601 timestamp, or
// common.NotAvailable when the value does not start with a valid date.
func DateOf(timestamp string) string {
	if len(timestamp) < len(common.DateLayout) {
		return common.NotAvailable
	}
	day := timestamp[:len(common.DateLayout)]
	if _, err := time.Parse(common.DateLayout, day); err != nil {
		return common.NotAvailable
	}
	return day
}

// WorstSeverity returns the most severe level with a non-zero count and
// false when there are no findings.
func (s Summary) WorstSeverity() (models.Severity, bool) {
	for _, sev := range models.Severities {
		if s.SeverityBreakdown[sev] > 0 {
			return sev, true
		}
	}
	return models.SeverityLow, false
}
