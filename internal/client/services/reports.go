package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/dashboard"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/filex"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"github.com/dmitrijs2005/autoscanml/internal/netx"
)

const defaultReportName = "report.pdf"

// ReportsService backs the scanned reports screen.
type ReportsService struct {
	client client.Client
	log    logging.Logger
}

func NewReportsService(c client.Client, log logging.Logger) *ReportsService {
	return &ReportsService{client: c, log: log}
}

// List returns one row per upload. On failure the list is empty and the
// error is returned alongside it.
func (s *ReportsService) List(ctx context.Context) ([]models.ReportItem, error) {
	uploads, err := s.client.ListUploads(ctx)
	if err != nil {
		s.log.Warn(ctx, "list reports failed", "error", err)
		return []models.ReportItem{}, err
	}

	items := make([]models.ReportItem, len(uploads))
	for i, u := range uploads {
		items[i] = models.ReportItem{
			Name:      u.Filename,
			Date:      dashboard.DateOf(u.UploadDate),
			ReportURL: u.ReportURL,
		}
	}
	return items, nil
}

// Download saves the report at reportURL into dir and returns the file path.
func (s *ReportsService) Download(ctx context.Context, reportURL, dir string) (string, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.client.DownloadReport(ctx, reportURL, &buf); err != nil {
		return "", err
	}

	name := netx.FileNameFromURL(reportURL)
	if name == "" {
		name = defaultReportName
	}
	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	s.log.Info(ctx, "report saved", "path", path, "bytes", buf.Len())
	return path, nil
}
