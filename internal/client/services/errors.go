package services

import "errors"

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation error")

	ErrInFlight     = errors.New("request already in flight")
	ErrInvalidStage = errors.New("operation not allowed in current stage")
	ErrNoSession    = errors.New("not logged in")
)

const (
	ReasonTermsNotAgreed   = "must agree to terms"
	ReasonPasswordMismatch = "passwords do not match"
	ReasonNoFile           = "no file selected"
	ReasonUnsupportedFile  = "unsupported file type"
	ReasonEmailRequired    = "email is required"
	ReasonInvalidTheme     = "invalid theme"
)

// ValidationError is a local precondition failure. It is raised before any
// network call. Reason is stable for callers; Message is shown to the user.
type ValidationError struct {
	Reason  string
	Message string
}

func newValidationError(reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
