package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
)

// SignupRequest is the body of /api/request-otp. Country is already resolved
// from the free-text field when "Other" was chosen.
type SignupRequest struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Client interface {
	Close() error

	Login(ctx context.Context, username, password string) (string, error)
	RequestSignupOTP(ctx context.Context, req SignupRequest) error
	VerifySignupOTP(ctx context.Context, email, otp string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	CompletePasswordReset(ctx context.Context, email, otp, newPassword string) (string, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error

	UploadModel(ctx context.Context, filename string, r io.Reader) (string, error)
	DownloadReport(ctx context.Context, reportURL string, w io.Writer) error

	ListModels(ctx context.Context) ([]models.ModelRecord, error)
	ListVulnerabilities(ctx context.Context) ([]models.Vulnerability, error)
	ListHighRiskModels(ctx context.Context) ([]models.ModelRecord, error)
	ListUploads(ctx context.Context) ([]models.UploadRecord, error)
	GetUser(ctx context.Context, username string) (*models.UserProfile, error)
}
