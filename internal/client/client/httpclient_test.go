package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded is one request seen by the mock API.
type recorded struct {
	Method    string
	Path      string
	Query     string
	RequestID string
	Body      map[string]string
}

type mockAPI struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	requests []recorded
	routes   map[string]http.HandlerFunc
}

func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()
	m := &mockAPI{t: t, routes: map[string]http.HandlerFunc{}}
	m.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			RequestID: r.Header.Get(common.RequestIDHeaderName),
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &rec.Body)
			r.Body = io.NopCloser(bytes.NewReader(b))
		}
		m.mu.Lock()
		m.requests = append(m.requests, rec)

		h, ok := m.routes[r.Method+" "+r.URL.Path]
		m.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.srv.Close)
	return m
}

func (m *mockAPI) recorded() []recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recorded(nil), m.requests...)
}

func (m *mockAPI) route(pattern string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[pattern] = h
}

func (m *mockAPI) handle(pattern string, status int, body string) {
	m.route(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (m *mockAPI) client(opts ...Option) *HTTPClient {
	m.t.Helper()
	c, err := NewHTTPClient(m.srv.URL, opts...)
	require.NoError(m.t, err)
	return c
}

func TestNewHTTPClient_RejectsBadBaseURL(t *testing.T) {
	_, err := NewHTTPClient("localhost:5000")
	require.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	api := newMockAPI(t)
	api.handle("POST /api/login", http.StatusOK, `{"message":"Login successful!"}`)

	msg, err := api.client().Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Login successful!", msg)

	require.Len(t, api.recorded(), 1)
	got := api.recorded()[0]
	assert.Equal(t, map[string]string{"username": "alice", "password": "secret"}, got.Body)
	_, err = uuid.Parse(got.RequestID)
	assert.NoError(t, err, "every call carries a uuid request id")
}

func TestLogin_UnauthorizedUsesMessageField(t *testing.T) {
	api := newMockAPI(t)
	api.handle("POST /api/login", http.StatusUnauthorized, `{"message":"Invalid username or password"}`)

	_, err := api.client().Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	assert.Equal(t, "Invalid username or password", ServerMessage(err))
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Invalid OTP."}`, "Invalid OTP."},
		{"error wins over message", http.StatusConflict, `{"error":"User or email already exists","message":"x"}`, "User or email already exists"},
		{"not json", http.StatusInternalServerError, `<html>oops</html>`, ""},
		{"empty", http.StatusBadGateway, ``, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newMockAPI(t)
			api.handle("POST /api/verify-otp", tc.status, tc.body)

			err := api.client().VerifySignupOTP(context.Background(), "a@b.c", "1234")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrUnauthorized)
			assert.Equal(t, tc.wantMsg, ServerMessage(err))
		})
	}
}

func TestSignupAndResetBodies(t *testing.T) {
	api := newMockAPI(t)
	api.handle("POST /api/request-otp", http.StatusOK, `{"message":"OTP sent to your email."}`)
	api.handle("POST /api/verify-otp", http.StatusCreated, `{"message":"Account created successfully!"}`)
	api.handle("POST /api/forgot-password-request", http.StatusOK, `{"message":"If the email exists, an OTP has been sent."}`)
	api.handle("POST /api/forgot-password-verify", http.StatusOK, `{"message":"Password reset"}`)
	api.handle("POST /api/change-password", http.StatusOK, `{"message":"Password updated successfully"}`)
	c := api.client()
	ctx := context.Background()

	require.NoError(t, c.RequestSignupOTP(ctx, SignupRequest{Name: "Alice", Country: "India", Email: "a@b.c", Username: "alice", Password: "pw"}))
	require.NoError(t, c.VerifySignupOTP(ctx, "a@b.c", "1234"))
	msg, err := c.RequestPasswordReset(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "If the email exists, an OTP has been sent.", msg)
	msg, err = c.CompletePasswordReset(ctx, "a@b.c", "998877", "new")
	require.NoError(t, err)
	assert.Equal(t, "Password reset", msg)
	require.NoError(t, c.ChangePassword(ctx, "alice", "old", "new"))

	reqs := api.recorded()
	require.Len(t, reqs, 5)
	assert.Equal(t, map[string]string{"name": "Alice", "country": "India", "email": "a@b.c", "username": "alice", "password": "pw"}, reqs[0].Body)
	assert.Equal(t, map[string]string{"email": "a@b.c", "otp": "1234"}, reqs[1].Body)
	assert.Equal(t, map[string]string{"email": "a@b.c"}, reqs[2].Body)
	assert.Equal(t, map[string]string{"email": "a@b.c", "otp": "998877", "new_password": "new"}, reqs[3].Body)
	assert.Equal(t, map[string]string{"username": "alice", "old_password": "old", "new_password": "new"}, reqs[4].Body)
}

func TestUploadModel_SendsMultipartFile(t *testing.T) {
	api := newMockAPI(t)
	var gotName, gotContent string
	api.route("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"No file part"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotName, gotContent = hdr.Filename, string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"report_url":"http://localhost:5000/uploads/report_model.pdf"}`)
	})

	url, err := api.client().UploadModel(context.Background(), "model.pkl", strings.NewReader("weights"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/report_model.pdf", url)
	assert.Equal(t, "model.pkl", gotName)
	assert.Equal(t, "weights", gotContent)
}

func TestUploadModel_StreamsFileWithContentLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.pt")
	content := strings.Repeat("w", 256<<10)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	api := newMockAPI(t)
	var gotLength int64
	var gotEncoding []string
	var gotContent string
	api.route("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		gotLength, gotEncoding = r.ContentLength, r.TransferEncoding
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"No file part"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotContent = string(b)
		_, _ = io.WriteString(w, `{"report_url":"r.pdf"}`)
	})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	url, err := api.client().UploadModel(context.Background(), "model.pt", f)
	require.NoError(t, err)
	assert.Equal(t, "r.pdf", url)
	assert.Equal(t, content, gotContent)
	assert.Greater(t, gotLength, int64(len(content)))
	assert.Empty(t, gotEncoding, "upload is not chunked")
}

func TestUploadModel_UnsizedReaderIsBuffered(t *testing.T) {
	api := newMockAPI(t)
	var gotLength int64
	var gotContent string
	api.route("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.ContentLength
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"No file part"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotContent = string(b)
		_, _ = io.WriteString(w, `{"report_url":"r.pdf"}`)
	})

	r := io.MultiReader(strings.NewReader("wei"), strings.NewReader("ghts"))
	_, err := api.client().UploadModel(context.Background(), "model.pkl", r)
	require.NoError(t, err)
	assert.Equal(t, "weights", gotContent)
	assert.Greater(t, gotLength, int64(len("weights")))
}

func TestRemaining(t *testing.T) {
	sr := strings.NewReader("abcdef")
	_, _ = sr.Read(make([]byte, 2))
	n, ok := remaining(sr)
	require.True(t, ok)
	assert.Equal(t, int64(4), n)

	b := make([]byte, 3)
	_, err := sr.Read(b)
	require.NoError(t, err)
	assert.Equal(t, "cde", string(b), "offset is restored")

	_, ok = remaining(io.MultiReader(sr))
	assert.False(t, ok)
}

func TestUploadModel_ReaderError(t *testing.T) {
	api := newMockAPI(t)
	_, err := api.client().UploadModel(context.Background(), "model.pkl", iotestErrReader{})
	require.Error(t, err)
	assert.Empty(t, api.recorded(), "nothing is sent when the file cannot be read")
}

type iotestErrReader struct{}

func (iotestErrReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestListings(t *testing.T) {
	api := newMockAPI(t)
	api.handle("GET /api/models", http.StatusOK, `[{"id":2,"filename":"b.pkl","upload_date":"2025-06-02T10:00:00","high_risk":true,"risk_score":0.9},{"id":1,"filename":"a.h5","upload_date":"2025-06-01T09:00:00","high_risk":false}]`)
	api.handle("GET /api/vulnerabilities", http.StatusOK, `[{"id":1,"model_id":2,"type":"static","severity":"High","title":"Pickle RCE","line":12},{"id":2,"model_id":2,"severity":null}]`)
	api.handle("GET /api/high-risk-models", http.StatusOK, `[{"id":2,"filename":"b.pkl","high_risk":true}]`)
	api.handle("GET /api/uploads", http.StatusOK, `[{"id":2,"filename":"b.pkl","upload_date":"2025-06-02T10:00:00","report_path":"r.pdf","report_url":"http://localhost:5000/uploads/r.pdf"}]`)
	c := api.client()
	ctx := context.Background()

	ms, err := c.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "b.pkl", ms[0].Filename)
	assert.True(t, ms[0].HighRisk)
	assert.InDelta(t, 0.9, ms[0].RiskScore, 1e-9)

	vs, err := c.ListVulnerabilities(ctx)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	require.NotNil(t, vs[0].Line)
	assert.Equal(t, 12, *vs[0].Line)
	assert.Empty(t, vs[1].Severity)
	assert.Empty(t, vs[1].Type)

	hr, err := c.ListHighRiskModels(ctx)
	require.NoError(t, err)
	assert.Len(t, hr, 1)

	ups, err := c.ListUploads(ctx)
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "http://localhost:5000/uploads/r.pdf", ups[0].ReportURL)
	assert.Equal(t, "b.pkl", ups[0].Filename)
}

func TestListModels_BadJSON(t *testing.T) {
	api := newMockAPI(t)
	api.handle("GET /api/models", http.StatusOK, `{"not":"a list"`)

	_, err := api.client().ListModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestGetUser(t *testing.T) {
	t.Run("array answer", func(t *testing.T) {
		api := newMockAPI(t)
		api.handle("GET /api/users", http.StatusOK, `[{"id":1,"name":"Bob","email":"b@x","username":"bob"},{"id":2,"name":"Alice","email":"a@x","username":"alice"}]`)

		u, err := api.client().GetUser(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, &models.UserProfile{ID: 2, Name: "Alice", Email: "a@x", Username: "alice"}, u)
		assert.Equal(t, "username=alice", api.recorded()[0].Query)
	})

	t.Run("object answer", func(t *testing.T) {
		api := newMockAPI(t)
		api.handle("GET /api/users", http.StatusOK, `{"id":2,"name":"Alice","email":"a@x","username":"alice"}`)

		u, err := api.client().GetUser(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.Name)
	})

	t.Run("not in list", func(t *testing.T) {
		api := newMockAPI(t)
		api.handle("GET /api/users", http.StatusOK, `[{"id":1,"username":"bob"}]`)

		_, err := api.client().GetUser(context.Background(), "alice")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestDownloadReport(t *testing.T) {
	api := newMockAPI(t)
	api.route("GET /uploads/r.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "%PDF-1.4 report")
	})
	c := api.client()

	var buf bytes.Buffer
	require.NoError(t, c.DownloadReport(context.Background(), "/uploads/r.pdf", &buf))
	assert.Equal(t, "%PDF-1.4 report", buf.String())

	buf.Reset()
	require.NoError(t, c.DownloadReport(context.Background(), api.srv.URL+"/uploads/r.pdf", &buf))
	assert.Equal(t, "%PDF-1.4 report", buf.String())

	err := c.DownloadReport(context.Background(), "/uploads/missing.pdf", &buf)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	api := newMockAPI(t)
	c := api.client()
	api.srv.Close()

	_, err := c.Login(context.Background(), "alice", "secret")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, ServerMessage(err))
}

func TestTimeoutAndCancellation(t *testing.T) {
	api := newMockAPI(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	api.route("GET /api/models", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	_, err := api.client(WithTimeout(50*time.Millisecond)).ListModels(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = api.client().ListModels(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRequestError_Error(t *testing.T) {
	assert.Equal(t, "login: status 500", (&RequestError{Op: "login", Status: 500}).Error())
	assert.Equal(t, "login: status 401: nope", (&RequestError{Op: "login", Status: 401, Message: "nope"}).Error())
	assert.Empty(t, ServerMessage(errors.New("plain")))
}

var _ Client = (*HTTPClient)(nil)
