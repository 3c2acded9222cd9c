package services

// OTPStage is the progress of a two-step OTP workflow.
type OTPStage int

const (
	StageAwaitingRequest OTPStage = iota
	StageAwaitingVerification
	StageCompleted
)

func (s OTPStage) String() string {
	switch s {
	case StageAwaitingRequest:
		return "awaiting-request"
	case StageAwaitingVerification:
		return "awaiting-verification"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// UploadStage is the progress of an upload session.
type UploadStage int

const (
	UploadIdle UploadStage = iota
	UploadSubmitting
	UploadCompleted
)

func (s UploadStage) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadSubmitting:
		return "submitting"
	case UploadCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
