package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/common"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"github.com/dmitrijs2005/autoscanml/internal/netx"
	"github.com/google/uuid"
)

const (
	pathLogin           = "/api/login"
	pathRequestOTP      = "/api/request-otp"
	pathVerifyOTP       = "/api/verify-otp"
	pathForgotRequest   = "/api/forgot-password-request"
	pathForgotVerify    = "/api/forgot-password-verify"
	pathChangePassword  = "/api/change-password"
	pathUpload          = "/api/upload"
	pathModels          = "/api/models"
	pathVulnerabilities = "/api/vulnerabilities"
	pathHighRiskModels  = "/api/high-risk-models"
	pathUploads         = "/api/uploads"
	pathUsers           = "/api/users"

	uploadField = "file"

	// error bodies are small; anything bigger is not worth reading
	maxErrorBody = 64 << 10
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	if _, err := netx.JoinURL(baseURL, "/"); err != nil {
		return nil, err
	}
	c := &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp messageResponse
	if err := c.postJSON(ctx, "login", pathLogin, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) RequestSignupOTP(ctx context.Context, req SignupRequest) error {
	return c.postJSON(ctx, "request signup otp", pathRequestOTP, req, nil)
}

func (c *HTTPClient) VerifySignupOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	return c.postJSON(ctx, "verify signup otp", pathVerifyOTP, body, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.postJSON(ctx, "request password reset", pathForgotRequest, map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) CompletePasswordReset(ctx context.Context, email, otp, newPassword string) (string, error) {
	body := map[string]string{"email": email, "otp": otp, "new_password": newPassword}
	var resp messageResponse
	if err := c.postJSON(ctx, "complete password reset", pathForgotVerify, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	body := map[string]string{
		"username":     username,
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.postJSON(ctx, "change password", pathChangePassword, body, nil)
}

// UploadModel sends r as the multipart "file" field and returns the report
// URL from the response. The request always carries a Content-Length since
// the scan server does not accept chunked uploads. Files and other seekable
// readers are streamed; anything else is buffered first.
func (c *HTTPClient) UploadModel(ctx context.Context, filename string, r io.Reader) (string, error) {
	const op = "upload model"

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	if _, err := mw.CreateFormFile(uploadField, filename); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	headLen := form.Len()
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	head, tail := form.Bytes()[:headLen], form.Bytes()[headLen:]

	var body sizedBody
	if size, ok := remaining(r); ok {
		body = sizedBody{
			Reader: io.MultiReader(bytes.NewReader(head), io.LimitReader(r, size), bytes.NewReader(tail)),
			size:   int64(len(head)) + size + int64(len(tail)),
		}
	} else {
		var buf bytes.Buffer
		buf.Write(head)
		if _, err := io.Copy(&buf, r); err != nil {
			return "", fmt.Errorf("%s: failed to read %s: %w", op, filename, err)
		}
		buf.Write(tail)
		body = sizedBody{Reader: &buf, size: int64(buf.Len())}
	}

	var resp struct {
		ReportURL string `json:"report_url"`
	}
	if err := c.do(ctx, op, http.MethodPost, pathUpload, body, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return resp.ReportURL, nil
}

// sizedBody is a request body whose length is known up front.
type sizedBody struct {
	io.Reader
	size int64
}

// remaining reports how many bytes are left in r when that can be told
// without reading it.
func remaining(r io.Reader) (int64, bool) {
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len()), true
	case io.Seeker:
		cur, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, false
		}
		end, err := v.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, false
		}
		if _, err := v.Seek(cur, io.SeekStart); err != nil {
			return 0, false
		}
		return end - cur, true
	}
	return 0, false
}

// DownloadReport copies the report at reportURL into w. Relative URLs are
// resolved against the API base.
func (c *HTTPClient) DownloadReport(ctx context.Context, reportURL string, w io.Writer) error {
	const op = "download report"

	target, err := netx.ResolveReference(c.baseURL, reportURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, cancel, err := c.send(ctx, op, http.MethodGet, target, nil, "")
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readRequestError(op, resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) ListModels(ctx context.Context) ([]models.ModelRecord, error) {
	var out []models.ModelRecord
	if err := c.getJSON(ctx, "list models", pathModels, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListVulnerabilities(ctx context.Context) ([]models.Vulnerability, error) {
	var out []models.Vulnerability
	if err := c.getJSON(ctx, "list vulnerabilities", pathVulnerabilities, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListHighRiskModels(ctx context.Context) ([]models.ModelRecord, error) {
	var out []models.ModelRecord
	if err := c.getJSON(ctx, "list high-risk models", pathHighRiskModels, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListUploads(ctx context.Context) ([]models.UploadRecord, error) {
	var out []models.UploadRecord
	if err := c.getJSON(ctx, "list uploads", pathUploads, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches /api/users?username=. The endpoint may answer with the
// whole user list, so the matching entry is picked out.
func (c *HTTPClient) GetUser(ctx context.Context, username string) (*models.UserProfile, error) {
	const op = "get user"

	var raw json.RawMessage
	if err := c.getJSON(ctx, op, pathUsers+"?username="+url.QueryEscape(username), &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var users []models.UserProfile
		if err := json.Unmarshal(raw, &users); err != nil {
			return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
		for i := range users {
			if users[i].Username == username {
				return &users[i], nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", op, username, common.ErrorNotFound)
	}

	var user models.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	if user.Username != "" && user.Username != username {
		return nil, fmt.Errorf("%s %q: %w", op, username, common.ErrorNotFound)
	}
	return &user, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, op, endpoint string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, endpoint, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) getJSON(ctx context.Context, op, endpoint string, out any) error {
	return c.do(ctx, op, http.MethodGet, endpoint, nil, "", out)
}

// do sends one request to endpoint and decodes a 2xx JSON body into out.
// An empty 2xx body leaves out untouched.
func (c *HTTPClient) do(ctx context.Context, op, method, endpoint string, body io.Reader, contentType string, out any) error {
	target, err := netx.JoinURL(c.baseURL, endpoint)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, cancel, err := c.send(ctx, op, method, target, body, contentType)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readRequestError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// send performs the round trip. The returned cancel func releases the
// per-request timeout and must be called once the body has been consumed.
func (c *HTTPClient) send(ctx context.Context, op, method, target string, body io.Reader, contentType string) (*http.Response, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.AppName)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sb, ok := body.(sizedBody); ok {
		req.ContentLength = sb.size
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.log.Warn(ctx, "api request failed", "op", op, "request_id", requestID, "error", err)
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	c.log.Debug(ctx, "api request", "op", op, "method", method, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))
	return resp, cancel, nil
}

func readRequestError(op string, resp *http.Response) error {
	reqErr := &RequestError{Op: op, Status: resp.StatusCode}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var msg messageResponse
	if json.Unmarshal(b, &msg) == nil {
		reqErr.Message = msg.Error
		if reqErr.Message == "" {
			reqErr.Message = msg.Message
		}
	}
	return reqErr
}
