package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

const (
	msgPasswordUpdated   = "Password updated successfully!"
	msgPasswordFailed    = "Failed to update password."
	msgPasswordTransport = "Server error."
	msgPasswordMismatch  = "New passwords do not match."
)

// PasswordForm holds the change-password inputs.
type PasswordForm struct {
	Old     string
	New     string
	Confirm string
}

func (f *PasswordForm) Clear() { *f = PasswordForm{} }

// PasswordWorkflow changes the password of the logged-in user. It never
// touches the remembered-user list.
type PasswordWorkflow struct {
	mu     sync.Mutex
	client client.Client
	log    logging.Logger
}

func NewPasswordWorkflow(c client.Client, log logging.Logger) *PasswordWorkflow {
	return &PasswordWorkflow{client: c, log: log}
}

// ChangePassword checks that New and Confirm agree, then submits the change.
// form is cleared on success and left as is on failure.
func (w *PasswordWorkflow) ChangePassword(ctx context.Context, username string, form *PasswordForm) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if form.New != form.Confirm {
		err := newValidationError(ReasonPasswordMismatch, msgPasswordMismatch)
		return failure(err, failureMessages{}), err
	}

	if err := w.client.ChangePassword(ctx, username, form.Old, form.New); err != nil {
		w.log.Warn(ctx, "change password failed", "username", username, "error", err)
		return failure(err, failureMessages{Server: msgPasswordFailed, Transport: msgPasswordTransport}), err
	}

	form.Clear()
	w.log.Debug(ctx, "password changed", "username", username)
	return Outcome{Message: msgPasswordUpdated}, nil
}
