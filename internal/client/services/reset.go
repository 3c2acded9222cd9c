package services

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

const (
	msgResetOTPSent       = "If the email exists, an OTP has been sent."
	msgResetSendFailed    = "Failed to send OTP."
	msgResetDone          = "Password has been reset successfully!"
	msgResetFailed        = "Failed to reset password."
	msgResetTransport     = "Server error. Please try again later."
	msgResetEmailRequired = "Please enter your email."
)

// ResetWorkflow is the forgot-password flow: request an OTP for an email,
// then submit it with the new password.
type ResetWorkflow struct {
	mu     sync.Mutex
	client client.Client
	log    logging.Logger
	stage  OTPStage
	email  string
}

func NewResetWorkflow(c client.Client, log logging.Logger) *ResetWorkflow {
	return &ResetWorkflow{client: c, log: log}
}

func (w *ResetWorkflow) Stage() OTPStage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *ResetWorkflow) Email() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.email
}

// RequestReset asks the server to mail an OTP. The server answers the same
// way whether or not the email is registered, so success always advances.
func (w *ResetWorkflow) RequestReset(ctx context.Context, email string) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageAwaitingRequest {
		return Outcome{}, ErrInvalidStage
	}
	email = strings.TrimSpace(email)
	if email == "" {
		err := newValidationError(ReasonEmailRequired, msgResetEmailRequired)
		return failure(err, failureMessages{}), err
	}

	msg, err := w.client.RequestPasswordReset(ctx, email)
	if err != nil {
		w.log.Warn(ctx, "password reset request failed", "email", email, "error", err)
		return failure(err, failureMessages{Server: msgResetSendFailed, Transport: msgResetTransport}), err
	}

	w.email = email
	w.stage = StageAwaitingVerification
	w.log.Debug(ctx, "reset stage changed", "stage", w.stage)
	return Outcome{Message: firstNonEmpty(msg, msgResetOTPSent)}, nil
}

// CompleteReset submits the OTP and the new password. An empty email falls
// back to the one the OTP was requested for. On success the view returns to
// login after ResetRedirectDelay.
func (w *ResetWorkflow) CompleteReset(ctx context.Context, email, otp, newPassword string) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageAwaitingVerification {
		return Outcome{}, ErrInvalidStage
	}
	email = firstNonEmpty(strings.TrimSpace(email), w.email)

	msg, err := w.client.CompletePasswordReset(ctx, email, otp, newPassword)
	if err != nil {
		w.log.Warn(ctx, "password reset failed", "email", email, "error", err)
		return failure(err, failureMessages{Server: msgResetFailed, Transport: msgResetTransport}), err
	}

	w.stage = StageCompleted
	w.log.Debug(ctx, "reset stage changed", "stage", w.stage)
	return Outcome{Message: firstNonEmpty(msg, msgResetDone), Navigate: navigate(RouteLogin, ResetRedirectDelay)}, nil
}
