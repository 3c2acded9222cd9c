package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

const (
	msgSignupOTPSent      = "OTP sent to your email!"
	msgSignupFailed       = "Signup failed"
	msgSignupCreated      = "Account created!"
	msgSignupVerifyFailed = "OTP verification failed"
	msgSignupTransport    = "Server error"
	msgTermsNotAgreed     = "You must agree to the terms."
)

// SignupWorkflow registers an account in two steps: the details are sent
// to request an OTP, then the OTP mailed to the user is verified.
type SignupWorkflow struct {
	mu     sync.Mutex
	client client.Client
	log    logging.Logger
	stage  OTPStage
	email  string
}

func NewSignupWorkflow(c client.Client, log logging.Logger) *SignupWorkflow {
	return &SignupWorkflow{client: c, log: log}
}

func (w *SignupWorkflow) Stage() OTPStage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Email is the address the OTP was sent to.
func (w *SignupWorkflow) Email() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.email
}

// SubmitDetails requests a signup OTP for draft. The terms must be agreed
// to before anything is sent.
func (w *SignupWorkflow) SubmitDetails(ctx context.Context, draft *models.SignupDraft) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageAwaitingRequest {
		return Outcome{}, ErrInvalidStage
	}
	if !draft.AgreedToTerms {
		err := newValidationError(ReasonTermsNotAgreed, msgTermsNotAgreed)
		return failure(err, failureMessages{}), err
	}

	req := client.SignupRequest{
		Name:     draft.Name,
		Country:  draft.ResolvedCountry(),
		Email:    draft.Email,
		Username: draft.Username,
		Password: draft.Password,
	}
	if err := w.client.RequestSignupOTP(ctx, req); err != nil {
		w.log.Warn(ctx, "signup otp request failed", "email", draft.Email, "error", err)
		return failure(err, failureMessages{Server: msgSignupFailed, Transport: msgSignupTransport}), err
	}

	w.email = draft.Email
	w.stage = StageAwaitingVerification
	w.log.Debug(ctx, "signup stage changed", "stage", w.stage)
	return Outcome{Message: msgSignupOTPSent}, nil
}

// VerifyOTP confirms the code. Non-digits are dropped and the code is cut
// to four digits, as the signup form does. Failures keep the stage, so the
// user may retry without limit.
func (w *SignupWorkflow) VerifyOTP(ctx context.Context, code string) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageAwaitingVerification {
		return Outcome{}, ErrInvalidStage
	}

	if err := w.client.VerifySignupOTP(ctx, w.email, models.SanitizeSignupOTP(code)); err != nil {
		w.log.Warn(ctx, "signup otp verification failed", "email", w.email, "error", err)
		return failure(err, failureMessages{Server: msgSignupVerifyFailed, Transport: msgSignupTransport}), err
	}

	w.stage = StageCompleted
	w.log.Debug(ctx, "signup stage changed", "stage", w.stage)
	return Outcome{Message: msgSignupCreated, Navigate: navigate(RouteLogin, 0)}, nil
}
