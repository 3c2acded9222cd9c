// Package render writes dashboard summaries and report lists as Markdown,
// for export files and for the terminal.
package render

import (
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/dashboard"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

// TypeLabel turns a raw vulnerability type into a display label.
func TypeLabel(t string) string {
	return titleCase.String(t)
}

// WriteDashboard renders s. generated is stamped in the header.
func WriteDashboard(w io.Writer, s dashboard.Summary, generated time.Time) error {
	md := markdown.NewMarkdown(w)

	md.H1("AutoScanML Dashboard")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Models Scanned", strconv.Itoa(s.ModelsScanned)},
			{"Vulnerabilities Found", strconv.Itoa(s.VulnerabilitiesFound)},
			{"High-Risk Models", strconv.Itoa(s.HighRiskModelsCount)},
			{"Last Scan", s.LastScanDate},
			{"Generated", generated.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	writeSeverity(md, s)
	writeTypes(md, s)
	writeRecent(md, s)

	return md.Build()
}

func writeSeverity(md *markdown.Markdown, s dashboard.Summary) {
	md.H2("Severity Breakdown")
	md.PlainText("")

	rows := make([][]string, 0, len(models.Severities))
	for _, sev := range models.Severities {
		rows = append(rows, []string{sev.String(), strconv.Itoa(s.SeverityBreakdown[sev])})
	}
	md.Table(markdown.TableSet{Header: []string{"Severity", "Count"}, Rows: rows})
	md.PlainText("")

	if s.VulnerabilitiesFound > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Vulnerabilities by Severity"),
			piechart.WithShowData(true),
		)
		for _, sev := range models.Severities {
			if n := s.SeverityBreakdown[sev]; n > 0 {
				chart.LabelAndIntValue(sev.String(), uint64(n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	worst, ok := s.WorstSeverity()
	switch {
	case !ok:
		md.Tip("No vulnerabilities found in scanned models.")
	case worst == models.SeverityCritical:
		md.Cautionf("%d critical vulnerabilities require immediate attention.", s.SeverityBreakdown[models.SeverityCritical])
	case worst == models.SeverityHigh:
		md.Warningf("%d high severity vulnerabilities should be addressed.", s.SeverityBreakdown[models.SeverityHigh])
	case worst == models.SeverityMedium:
		md.Importantf("%d medium severity vulnerabilities found.", s.SeverityBreakdown[models.SeverityMedium])
	default:
		md.Note("Only low severity vulnerabilities found.")
	}
	md.PlainText("")
}

func writeTypes(md *markdown.Markdown, s dashboard.Summary) {
	md.H2("Vulnerability Types")
	md.PlainText("")

	if len(s.TypeBreakdown) == 0 {
		md.PlainText("No vulnerabilities recorded.")
		md.PlainText("")
		return
	}
	rows := make([][]string, len(s.TypeBreakdown))
	for i, tc := range s.TypeBreakdown {
		rows[i] = []string{TypeLabel(tc.Type), strconv.Itoa(tc.Count)}
	}
	md.Table(markdown.TableSet{Header: []string{"Type", "Count"}, Rows: rows})
	md.PlainText("")
}

func writeRecent(md *markdown.Markdown, s dashboard.Summary) {
	md.H2("Recent Scans")
	md.PlainText("")

	if len(s.RecentScans) == 0 {
		md.PlainText("No scans yet.")
		md.PlainText("")
		return
	}
	rows := make([][]string, len(s.RecentScans))
	for i, m := range s.RecentScans {
		risk := "No"
		if m.HighRisk {
			risk = "Yes"
		}
		rows[i] = []string{m.Filename, dashboard.DateOf(m.UploadDate), orDash(m.Status), risk}
	}
	md.Table(markdown.TableSet{Header: []string{"Model", "Uploaded", "Status", "High Risk"}, Rows: rows})
	md.PlainText("")
}

// WriteReports renders the scanned reports list.
func WriteReports(w io.Writer, items []models.ReportItem) error {
	md := markdown.NewMarkdown(w)

	md.H1("Scanned Reports")
	md.PlainText("")

	if len(items) == 0 {
		md.PlainText("No reports found.")
		return md.Build()
	}

	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(i + 1), it.Name, it.Date, it.ReportURL}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Model", "Date", "Report"}, Rows: rows})
	return md.Build()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
