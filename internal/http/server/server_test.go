package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cloudstorage/internal/cache/memory"
	"cloudstorage/internal/config"
	"cloudstorage/internal/lib/token"
	"cloudstorage/internal/metrics"
	"cloudstorage/internal/models"
	cachefilesrepo "cloudstorage/internal/repositories/cache/files"
	cachesessionrepo "cloudstorage/internal/repositories/cache/session"
	authservice "cloudstorage/internal/services/auth"
	fileservice "cloudstorage/internal/services/file"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]*models.User

func (v staticVerifier) VerifyCredentials(_ context.Context, login string, password string) (*models.User, error) {
	user, ok := v[login+":"+password]
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

type memFiles struct {
	mu    sync.Mutex
	files map[[2]string][]byte
}

func (m *memFiles) Save(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[[2]string{f.OwnerID, f.Filename}] = f.Content
	return nil
}

func (m *memFiles) FileByOwnerAndName(_ context.Context, ownerID string, filename string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[[2]string{ownerID, filename}]
	if !ok {
		return nil, models.ErrFileNotFound
	}
	return &models.File{OwnerID: ownerID, Filename: filename, Size: int64(len(content)), Content: content}, nil
}

func (m *memFiles) DeleteByOwnerAndName(_ context.Context, ownerID string, filename string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{ownerID, filename}
	if _, ok := m.files[key]; !ok {
		return 0, nil
	}
	delete(m.files, key)
	return 1, nil
}

func (m *memFiles) Rename(_ context.Context, ownerID string, filename string, newFilename string, _ time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	from, to := [2]string{ownerID, filename}, [2]string{ownerID, newFilename}
	content, ok := m.files[from]
	if !ok {
		return 0, nil
	}
	if _, taken := m.files[to]; taken {
		return 0, &models.UniqueConstraintError{Err: models.ErrUNIQUEConstraintFailed}
	}
	delete(m.files, from)
	m.files[to] = content
	return 1, nil
}

func (m *memFiles) ListByOwner(_ context.Context, ownerID string) ([]models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := make([]models.FileInfo, 0)
	for key, content := range m.files {
		if key[0] == ownerID {
			files = append(files, models.FileInfo{Filename: key[1], Size: int64(len(content))})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec, err := token.NewCodec(strings.Repeat("k", 32), time.Hour)
	require.NoError(t, err)

	registry := memory.New()

	auth := authservice.New(log, staticVerifier{
		"alice:alicepass1": {ID: "u1", Login: "alice"},
		"bob:bobpass1":     {ID: "u2", Login: "bob"},
	}, codec, cachesessionrepo.New(registry))

	files := fileservice.New(log, &memFiles{files: make(map[[2]string][]byte)},
		cachefilesrepo.New(memory.New(), time.Minute), auth)

	m := metrics.New()
	m.TrackActiveSessions(registry.Len)

	cfg := &config.Config{
		HTTPServer: config.HTTPServer{MaxBodySize: 1024},
		Metrics:    config.Metrics{Enabled: true, Path: "/metrics"},
	}

	return NewRouter(cfg, log, auth, files, m)
}

func do(t *testing.T, h http.Handler, method string, target string, authToken string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authToken != "" {
		req.Header.Set("auth-token", "Bearer "+authToken)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func login(t *testing.T, h http.Handler, user string, password string) string {
	t.Helper()

	w := do(t, h, http.MethodPost, "/login", "", `{"login":"`+user+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp["auth-token"])

	return resp["auth-token"]
}

func TestRouter_FileLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	tok := login(t, h, "alice", "alicepass1")

	w := do(t, h, http.MethodPost, "/file?filename=notes.txt", tok, "hello world")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/list?limit=10", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"filename":"notes.txt","size":11}]`, w.Body.String())

	w = do(t, h, http.MethodPut, "/file?filename=notes.txt", tok, `{"filename":"renamed.txt"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/file?filename=renamed.txt", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))

	w = do(t, h, http.MethodDelete, "/file?filename=renamed.txt", tok, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodDelete, "/file?filename=renamed.txt", tok, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Error Delete File","id":0}`, w.Body.String())
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	tok := login(t, h, "alice", "alicepass1")

	w := do(t, h, http.MethodGet, "/list?limit=1", tok, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/logout", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Success logout"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/list?limit=1", tok, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Error Unauthorized","id":0}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/logout", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_BadCredentials(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/login", "", `{"login":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Error Bad Credentials","id":0}`, w.Body.String())
}

func TestRouter_OwnersCannotSeeEachOther(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	alice := login(t, h, "alice", "alicepass1")
	bob := login(t, h, "bob", "bobpass1")

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/file?filename=secret.txt", alice, "alice only").Code)

	w := do(t, h, http.MethodGet, "/file?filename=secret.txt", bob, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/list?limit=10", bob, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRouter_UnauthenticatedRequests(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/file?filename=a.txt", "data"},
		{http.MethodDelete, "/file?filename=a.txt", ""},
		{http.MethodGet, "/file?filename=a.txt", ""},
		{http.MethodPut, "/file?filename=a.txt", `{broken`},
		{http.MethodGet, "/list?limit=0", ""},
	}

	for _, rq := range requests {
		w := do(t, h, rq.method, rq.target, "", rq.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rq.method+" "+rq.target)

		w = do(t, h, rq.method, rq.target, "not-a-token", rq.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rq.method+" "+rq.target)
	}
}

func TestRouter_UploadTooLarge(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	tok := login(t, h, "alice", "alicepass1")

	w := do(t, h, http.MethodPost, "/file?filename=big.bin", tok, strings.Repeat("x", 2048))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	w := do(t, h, http.MethodPatch, "/file?filename=a.txt", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"message":"method not allowed","id":0}`, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	login(t, h, "alice", "alicepass1")

	w := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cloudstorage_sessions_active 1")
	assert.Contains(t, w.Body.String(), `cloudstorage_http_requests_total{method="POST",route="/login",status="200"} 1`)
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	t.Parallel()

	srv := newHTTPServer(config.HTTPServer{
		Address:         ":8080",
		Timeout:         4 * time.Second,
		TransferTimeout: 10 * time.Minute,
		IdleTimeout:     time.Minute,
	}, http.NotFoundHandler())

	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Minute, srv.ReadTimeout)
	assert.Equal(t, 10*time.Minute, srv.WriteTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
}

func TestServer_SlowUploadOutlivesHeaderTimeout(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	tok := login(t, h, "alice", "alicepass1")

	ts := httptest.NewUnstartedServer(nil)
	ts.Config = newHTTPServer(config.HTTPServer{
		Timeout:         100 * time.Millisecond,
		TransferTimeout: 5 * time.Second,
		IdleTimeout:     time.Second,
	}, h)
	ts.Start()
	defer ts.Close()

	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("first half "))
		time.Sleep(300 * time.Millisecond)
		_, _ = pw.Write([]byte("second half"))
		_ = pw.Close()
	}()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/file?filename=slow.txt", pr)
	require.NoError(t, err)
	req.Header.Set("auth-token", "Bearer "+tok)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	w := do(t, h, http.MethodGet, "/file?filename=slow.txt", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "first half second half", w.Body.String())
}
