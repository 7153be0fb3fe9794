package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/internal/config"
)

// Server serves the local command API on the loopback address from the config
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer builds the API server. Requests that change state must carry token.
func NewServer(cfg *config.Config, handler *Handler, token string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	return &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Web.Host, fmt.Sprint(cfg.Web.Port)),
			Handler:           withRequestLog(withGuard(mux, cfg, token, logger), logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Listen binds the address so that port conflicts are reported before serving
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return ln, nil
}

// Serve blocks until the server is shut down
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting local API", zap.String("addr", "http://"+ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down local API")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}

// TokenHeader carries the per-run token that authorizes state-changing requests
const TokenHeader = "X-ChitChat-Token"

// guard keeps other browser origins and unauthenticated callers away from
// the API. Reads stay open to same-origin pages such as the index; every
// request that changes state needs a JSON body and the run token.
type guard struct {
	next    http.Handler
	token   string
	hosts   map[string]bool
	origins map[string]bool
	logger  *zap.Logger
}

func withGuard(next http.Handler, cfg *config.Config, token string, logger *zap.Logger) http.Handler {
	g := &guard{
		next:    next,
		token:   token,
		hosts:   map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true},
		origins: make(map[string]bool, len(cfg.Web.AllowedOrigins)),
		logger:  logger,
	}
	g.hosts[strings.ToLower(cfg.Web.Host)] = true
	for _, origin := range cfg.Web.AllowedOrigins {
		g.origins[strings.TrimRight(origin, "/")] = true
	}
	return g
}

func (g *guard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Rebound DNS names reach the loopback listener with a foreign Host
	if !g.hosts[requestHost(r)] {
		g.refuse(w, r, http.StatusForbidden, "host not allowed")
		return
	}

	origin := r.Header.Get("Origin")
	crossOrigin := origin != "" && origin != "http://"+r.Host
	if crossOrigin {
		if !g.origins[origin] {
			g.refuse(w, r, http.StatusForbidden, "origin not allowed")
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}

	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, HX-Request, "+TokenHeader)
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodHead:
	default:
		if !isJSON(r.Header.Get("Content-Type")) {
			g.refuse(w, r, http.StatusUnsupportedMediaType, "content type must be application/json")
			return
		}
		if !g.validToken(r.Header.Get(TokenHeader)) {
			g.refuse(w, r, http.StatusUnauthorized, "missing or invalid token")
			return
		}
	}

	g.next.ServeHTTP(w, r)
}

// validToken never accepts anything when the server has no token
func (g *guard) validToken(got string) bool {
	if g.token == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(g.token)) == 1
}

func (g *guard) refuse(w http.ResponseWriter, r *http.Request, status int, reason string) {
	g.logger.Warn("request refused",
		zap.String("reason", reason),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("origin", r.Header.Get("Origin")))
	respondError(w, status, reason)
}

func requestHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
	}
	return strings.ToLower(strings.Trim(host, "[]"))
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog logs every request at debug level and failures at warn
func withRequestLog(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Debug("request", fields...)
	})
}
