package web

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chitchat/desktop/internal/config"
)

func TestServerLifecycle(t *testing.T) {
	cfg := config.Default()
	cfg.Web.Host = "127.0.0.1"
	cfg.Web.Port = 0

	srv := NewServer(cfg, NewHandler(cfg, Deps{}), "run-token", zap.NewNop())
	assert.Equal(t, "127.0.0.1:0", srv.GetAddress())

	ln, err := srv.Listen()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}

func TestListenPortInUse(t *testing.T) {
	cfg := config.Default()
	cfg.Web.Host = "127.0.0.1"
	cfg.Web.Port = 0

	ln, err := NewServer(cfg, NewHandler(cfg, Deps{}), "", nil).Listen()
	require.NoError(t, err)
	defer ln.Close()

	cfg.Web.Port = ln.Addr().(*net.TCPAddr).Port
	_, err = NewServer(cfg, NewHandler(cfg, Deps{}), "", nil).Listen()
	assert.ErrorContains(t, err, "failed to listen on")
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	h := withRequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}), zap.New(core))

	do(t, h, http.MethodGet, "/fine", "")
	do(t, h, http.MethodPost, "/boom", "")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "/boom", entries[1].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}

const (
	testToken  = "run-token"
	validInput = `{"type":"pointer_move","xNorm":0.5,"yNorm":1}`
)

func newGuarded(cfg *config.Config, deps Deps, logger *zap.Logger) http.Handler {
	return withGuard(newTestMux(deps), cfg, testToken, logger)
}

// send issues a request as it arrives on the loopback listener
func send(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Host = "127.0.0.1:17000"
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGuardRefusesCrossOriginInput(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := &fakeInput{}
	badge := &fakeBadge{}
	opener := &fakeOpener{}
	h := newGuarded(config.Default(), Deps{Input: input, Badge: badge, Opener: opener}, zap.New(core))

	// A simple form post from any web page needs no preflight
	simple := http.Header{
		"Origin":       {"https://evil.example"},
		"Content-Type": {"text/plain"},
	}
	for path, body := range map[string]string{
		"/api/input":      validInput,
		"/api/open-url":   `{"url":"https://evil.example/phish"}`,
		"/api/tray/badge": `{"count":99}`,
	} {
		rec := send(t, h, http.MethodPost, path, body, simple)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), path)
	}

	// The token does not make a foreign origin acceptable
	rec := send(t, h, http.MethodPost, "/api/input", validInput, http.Header{
		"Origin":       {"https://evil.example"},
		"Content-Type": {"application/json"},
		TokenHeader:    {testToken},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(t, h, http.MethodOptions, "/api/input", "", http.Header{"Origin": {"https://evil.example"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Empty(t, input.events)
	assert.Zero(t, badge.calls)
	assert.Empty(t, opener.opened)

	require.Equal(t, 5, logs.Len())
	assert.Equal(t, "origin not allowed", logs.All()[0].ContextMap()["reason"])
}

func TestGuardRequiresJSONAndToken(t *testing.T) {
	input := &fakeInput{}
	h := newGuarded(config.Default(), Deps{Input: input}, zap.NewNop())

	tests := []struct {
		name   string
		header http.Header
		want   int
	}{
		{"text body", http.Header{"Content-Type": {"text/plain"}, TokenHeader: {testToken}}, http.StatusUnsupportedMediaType},
		{"form body", http.Header{"Content-Type": {"application/x-www-form-urlencoded"}, TokenHeader: {testToken}}, http.StatusUnsupportedMediaType},
		{"no token", http.Header{"Content-Type": {"application/json"}}, http.StatusUnauthorized},
		{"wrong token", http.Header{"Content-Type": {"application/json"}, TokenHeader: {"guess"}}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(t, h, http.MethodPost, "/api/input", validInput, tt.header)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Empty(t, input.events)

	rec := send(t, h, http.MethodPost, "/api/input", validInput, http.Header{
		"Content-Type": {"application/json; charset=utf-8"},
		TokenHeader:    {testToken},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, input.events, 1)
}

func TestGuardWithoutTokenRefusesChanges(t *testing.T) {
	input := &fakeInput{}
	h := withGuard(newTestMux(Deps{Input: input}), config.Default(), "", zap.NewNop())

	rec := send(t, h, http.MethodPost, "/api/input", validInput, http.Header{
		"Content-Type": {"application/json"},
		TokenHeader:    {""},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, input.events)
}

func TestGuardSameOriginReads(t *testing.T) {
	h := newGuarded(config.Default(), Deps{Detector: fakeDetector{}}, zap.NewNop())

	rec := send(t, h, http.MethodGet, "/api/game", "", http.Header{"Origin": {"http://127.0.0.1:17000"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = send(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(t, h, http.MethodGet, "/api/game", "", http.Header{"Origin": {"null"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardAllowedOrigin(t *testing.T) {
	cfg := config.Default()
	cfg.Web.AllowedOrigins = []string{"http://localhost:5173/"}
	badge := &fakeBadge{}
	h := newGuarded(cfg, Deps{Badge: badge}, zap.NewNop())

	rec := send(t, h, http.MethodOptions, "/api/tray/badge", "", http.Header{"Origin": {"http://localhost:5173"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), TokenHeader)
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	rec = send(t, h, http.MethodPost, "/api/tray/badge", `{"count":2}`, http.Header{
		"Origin":       {"http://localhost:5173"},
		"Content-Type": {"application/json"},
		TokenHeader:    {testToken},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, badge.count)
}

func TestGuardRefusesForeignHost(t *testing.T) {
	h := newGuarded(config.Default(), Deps{Detector: fakeDetector{}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/game", nil)
	req.Host = "rebind.evil.example:17000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, host := range []string{"localhost:17000", "[::1]:17000", "LOCALHOST"} {
		req := httptest.NewRequest(http.MethodGet, "/api/game", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, host)
	}
}
