package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

// fakeClient implements client.Client for workflow tests. Results are
// configured through the exported fields; arguments are recorded in Last*.
type fakeClient struct {
	mu    sync.Mutex
	Calls []string

	LoginMsg string
	LoginErr error

	RequestOTPErr error
	VerifyOTPErr  error

	ResetRequestMsg string
	ResetRequestErr error
	ResetVerifyMsg  string
	ResetVerifyErr  error

	ChangePasswordErr error

	UploadURL  string
	UploadErr  error
	UploadHook func()

	DownloadBody string
	DownloadErr  error

	Models       []models.ModelRecord
	ModelsErr    error
	Vulns        []models.Vulnerability
	VulnsErr     error
	HighRisk     []models.ModelRecord
	HighRiskErr  error
	Uploads      []models.UploadRecord
	UploadsErr   error
	User         *models.UserProfile
	UserErr      error

	LastLoginUser, LastLoginPassword string
	LastSignup                       client.SignupRequest
	LastVerifyEmail, LastVerifyOTP   string
	LastResetEmail, LastResetOTP     string
	LastResetPassword                string
	LastChangeUser                   string
	LastChangeOld, LastChangeNew     string
	LastUploadName, LastUploadBody   string
	LastDownloadURL                  string
	LastGetUser                      string
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *fakeClient) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(_ context.Context, username, password string) (string, error) {
	f.record("login")
	f.LastLoginUser, f.LastLoginPassword = username, password
	return f.LoginMsg, f.LoginErr
}

func (f *fakeClient) RequestSignupOTP(_ context.Context, req client.SignupRequest) error {
	f.record("request-otp")
	f.LastSignup = req
	return f.RequestOTPErr
}

func (f *fakeClient) VerifySignupOTP(_ context.Context, email, otp string) error {
	f.record("verify-otp")
	f.LastVerifyEmail, f.LastVerifyOTP = email, otp
	return f.VerifyOTPErr
}

func (f *fakeClient) RequestPasswordReset(_ context.Context, email string) (string, error) {
	f.record("forgot-password-request")
	f.LastResetEmail = email
	return f.ResetRequestMsg, f.ResetRequestErr
}

func (f *fakeClient) CompletePasswordReset(_ context.Context, email, otp, newPassword string) (string, error) {
	f.record("forgot-password-verify")
	f.LastResetEmail, f.LastResetOTP, f.LastResetPassword = email, otp, newPassword
	return f.ResetVerifyMsg, f.ResetVerifyErr
}

func (f *fakeClient) ChangePassword(_ context.Context, username, oldPassword, newPassword string) error {
	f.record("change-password")
	f.LastChangeUser, f.LastChangeOld, f.LastChangeNew = username, oldPassword, newPassword
	return f.ChangePasswordErr
}

func (f *fakeClient) UploadModel(_ context.Context, filename string, r io.Reader) (string, error) {
	f.record("upload")
	b, _ := io.ReadAll(r)
	f.mu.Lock()
	f.LastUploadName, f.LastUploadBody = filename, string(b)
	hook := f.UploadHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.UploadURL, f.UploadErr
}

func (f *fakeClient) DownloadReport(_ context.Context, reportURL string, w io.Writer) error {
	f.record("download")
	f.LastDownloadURL = reportURL
	if f.DownloadErr != nil {
		return f.DownloadErr
	}
	_, err := io.WriteString(w, f.DownloadBody)
	return err
}

func (f *fakeClient) ListModels(context.Context) ([]models.ModelRecord, error) {
	f.record("models")
	return f.Models, f.ModelsErr
}

func (f *fakeClient) ListVulnerabilities(context.Context) ([]models.Vulnerability, error) {
	f.record("vulnerabilities")
	return f.Vulns, f.VulnsErr
}

func (f *fakeClient) ListHighRiskModels(context.Context) ([]models.ModelRecord, error) {
	f.record("high-risk-models")
	return f.HighRisk, f.HighRiskErr
}

func (f *fakeClient) ListUploads(context.Context) ([]models.UploadRecord, error) {
	f.record("uploads")
	return f.Uploads, f.UploadsErr
}

func (f *fakeClient) GetUser(_ context.Context, username string) (*models.UserProfile, error) {
	f.record("users")
	f.LastGetUser = username
	return f.User, f.UserErr
}

var _ client.Client = (*fakeClient)(nil)

func nopLog() logging.Logger { return logging.Nop() }

func serverErr(status int, msg string) error {
	return &client.RequestError{Op: "test", Status: status, Message: msg}
}
