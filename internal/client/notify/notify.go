// Package notify announces finished scans through shoutrrr service URLs
// (Slack, Discord, ntfy, email and so on).
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"github.com/nicholas-fedor/shoutrrr"
)

var ErrNoURL = errors.New("notification url is empty")

// Sender abstracts message dispatch so Notifier can be tested offline.
type Sender interface {
	Send(url, message string) error
}

// ShoutrrrSender dispatches via the shoutrrr library.
type ShoutrrrSender struct{}

func (ShoutrrrSender) Send(url, message string) error {
	return shoutrrr.Send(url, message)
}

type Notifier struct {
	url    string
	sender Sender
	log    logging.Logger
}

// New returns a Notifier posting to url. A nil sender means ShoutrrrSender.
func New(url string, sender Sender, log logging.Logger) (*Notifier, error) {
	if url == "" {
		return nil, ErrNoURL
	}
	if sender == nil {
		sender = ShoutrrrSender{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Notifier{url: url, sender: sender, log: log.With("component", "notify")}, nil
}

// Message formats the scan-complete text.
func Message(filename, reportURL string) string {
	return fmt.Sprintf("Scan complete for %s: %s", filename, reportURL)
}

func (n *Notifier) ScanCompleted(ctx context.Context, filename, reportURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.sender.Send(n.url, Message(filename, reportURL)); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	n.log.Debug(ctx, "scan notification sent", "file", filename)
	return nil
}
