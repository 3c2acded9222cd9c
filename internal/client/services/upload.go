package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"github.com/google/uuid"
)

const (
	msgUploadDone        = "Scan complete. Your report is ready."
	msgUploadFailed      = "Failed to upload file. Please try again."
	msgNoFileSelected    = "No file selected"
	msgUnsupportedFormat = "Unsupported file type."
)

// ReportArchiver copies a finished report to long-term storage and returns
// where it was stored.
type ReportArchiver interface {
	Archive(ctx context.Context, uploadID, reportURL string) (string, error)
}

// ScanNotifier announces finished scans.
type ScanNotifier interface {
	ScanCompleted(ctx context.Context, filename, reportURL string) error
}

// UploadSnapshot is a read-only view of the upload session.
type UploadSnapshot struct {
	ID        string
	Stage     UploadStage
	File      string
	ReportURL string
}

// UploadWorkflow drives one upload session: Idle, then Submitting while the
// request is in flight, then Completed with a report URL, and back to Idle
// on Reset.
type UploadWorkflow struct {
	mu        sync.Mutex
	client    client.Client
	log       logging.Logger
	archiver  ReportArchiver
	notifier  ScanNotifier
	id        string
	stage     UploadStage
	file      models.FileHandle
	reportURL string
}

type UploadOption func(*UploadWorkflow)

func WithArchiver(a ReportArchiver) UploadOption {
	return func(w *UploadWorkflow) { w.archiver = a }
}

func WithNotifier(n ScanNotifier) UploadOption {
	return func(w *UploadWorkflow) { w.notifier = n }
}

func NewUploadWorkflow(c client.Client, log logging.Logger, opts ...UploadOption) *UploadWorkflow {
	w := &UploadWorkflow{client: c, log: log, id: uuid.NewString()}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *UploadWorkflow) Snapshot() UploadSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := UploadSnapshot{ID: w.id, Stage: w.stage, ReportURL: w.reportURL}
	if w.file != nil {
		s.File = w.file.Name()
	}
	return s
}

// SelectFile replaces the selected file. Only allowed while Idle.
func (w *UploadWorkflow) SelectFile(f models.FileHandle) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != UploadIdle {
		return ErrInvalidStage
	}
	if f == nil {
		return newValidationError(ReasonNoFile, msgNoFileSelected)
	}
	if !models.IsAllowedFile(f.Name()) {
		return newValidationError(ReasonUnsupportedFile, msgUnsupportedFormat)
	}
	w.file = f
	return nil
}

// Submit uploads the selected file. A second Submit while the first is in
// flight fails with ErrInFlight. On failure the session returns to Idle with
// the file still selected and no report URL.
func (w *UploadWorkflow) Submit(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	switch w.stage {
	case UploadSubmitting:
		w.mu.Unlock()
		return Outcome{}, ErrInFlight
	case UploadCompleted:
		w.mu.Unlock()
		return Outcome{}, ErrInvalidStage
	}
	if w.file == nil {
		w.mu.Unlock()
		err := newValidationError(ReasonNoFile, msgNoFileSelected)
		return failure(err, failureMessages{}), err
	}
	file, id := w.file, w.id
	w.stage = UploadSubmitting
	w.reportURL = ""
	w.mu.Unlock()

	w.log.Debug(ctx, "upload stage changed", "upload_id", id, "stage", UploadSubmitting, "file", file.Name())

	reportURL, err := w.upload(ctx, file)

	w.mu.Lock()
	if err != nil {
		w.stage = UploadIdle
		w.mu.Unlock()
		w.log.Warn(ctx, "upload failed", "upload_id", id, "file", file.Name(), "error", err)
		return Outcome{Message: msgUploadFailed}, err
	}
	w.reportURL = reportURL
	w.stage = UploadCompleted
	w.mu.Unlock()

	w.log.Debug(ctx, "upload stage changed", "upload_id", id, "stage", UploadCompleted, "report_url", reportURL)
	w.afterCompletion(ctx, id, file.Name(), reportURL)
	return Outcome{Message: msgUploadDone}, nil
}

func (w *UploadWorkflow) upload(ctx context.Context, file models.FileHandle) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer rc.Close()

	reportURL, err := w.client.UploadModel(ctx, file.Name(), rc)
	if err != nil {
		return "", err
	}
	if reportURL == "" {
		return "", errors.New("upload response carried no report url")
	}
	return reportURL, nil
}

// afterCompletion runs the optional archive and notification steps. Their
// failures are logged and never undo the completed upload.
func (w *UploadWorkflow) afterCompletion(ctx context.Context, id, filename, reportURL string) {
	if w.archiver != nil {
		if location, err := w.archiver.Archive(ctx, id, reportURL); err != nil {
			w.log.Warn(ctx, "report archive failed", "upload_id", id, "error", err)
		} else {
			w.log.Info(ctx, "report archived", "upload_id", id, "location", location)
		}
	}
	if w.notifier != nil {
		if err := w.notifier.ScanCompleted(ctx, filename, reportURL); err != nil {
			w.log.Warn(ctx, "scan notification failed", "upload_id", id, "error", err)
		}
	}
}

// Reset clears the file and report URL and starts a new session. It is
// refused while a request is in flight.
func (w *UploadWorkflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage == UploadSubmitting {
		return ErrInFlight
	}
	w.stage = UploadIdle
	w.file = nil
	w.reportURL = ""
	w.id = uuid.NewString()
	return nil
}
