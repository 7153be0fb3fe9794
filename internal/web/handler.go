package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/internal/config"
	"github.com/chitchat/desktop/internal/database"
	"github.com/chitchat/desktop/internal/reporter"
	"github.com/chitchat/desktop/internal/tracker"
	"github.com/chitchat/desktop/pkg/games"
	"github.com/chitchat/desktop/pkg/remote"
	"github.com/chitchat/desktop/pkg/window"
)

const maxBodyBytes = 64 << 10

// GameDetector runs one detection pass
type GameDetector interface {
	Detect(ctx context.Context) games.Detection
}

// InputApplier injects one remote-control event
type InputApplier interface {
	Apply(ev remote.Event) error
}

// BadgeSetter updates the unread count shown by the tray
type BadgeSetter interface {
	SetBadge(count int)
}

// URLOpener opens a link in the system browser
type URLOpener interface {
	OpenURL(u *url.URL) error
}

// Deps are the components the local API dispatches to.
// Nil components make their routes answer 503.
type Deps struct {
	Detector GameDetector
	Input    InputApplier
	Badge    BadgeSetter
	Window   window.Controller
	Opener   URLOpener
	Tracker  *tracker.Service
	Repo     *database.Repository
	Logger   *zap.Logger
}

type Handler struct {
	config   *config.Config
	deps     Deps
	reporter *reporter.Reporter
	logger   *zap.Logger
	started  time.Time
}

func NewHandler(cfg *config.Config, deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		config:  cfg,
		deps:    deps,
		logger:  logger,
		started: time.Now(),
	}
	if deps.Repo != nil {
		h.reporter = reporter.New(deps.Repo)
	}
	return h
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/game", h.handleGame)
	mux.HandleFunc("/api/input", h.handleInput)
	mux.HandleFunc("/api/tray/badge", h.handleBadge)
	mux.HandleFunc("/api/window/show", h.handleShowWindow)
	mux.HandleFunc("/api/open-url", h.handleOpenURL)

	mux.HandleFunc("/api/sessions", h.handleSessions)
	mux.HandleFunc("/api/sessions/current", h.handleCurrentSession)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/summary", h.handleSummary)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

func (h *Handler) handleGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Detector == nil {
		respondError(w, http.StatusServiceUnavailable, "game detection is not available")
		return
	}

	respondJSON(w, h.deps.Detector.Detect(r.Context()))
}

func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Input == nil {
		respondError(w, http.StatusServiceUnavailable, "input injection is not available")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}

	ev, err := remote.DecodeEvent(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.deps.Input.Apply(ev); err != nil {
		h.logger.Debug("input injection failed", zap.String("type", string(ev.Type)), zap.Error(err))
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondOK(w)
}

type badgeRequest struct {
	Count *int `json:"count"`
}

func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Badge == nil {
		respondError(w, http.StatusServiceUnavailable, "tray is not available")
		return
	}

	var req badgeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Count == nil {
		respondError(w, http.StatusBadRequest, "missing field `count`")
		return
	}
	if *req.Count < 0 {
		respondError(w, http.StatusBadRequest, "count cannot be negative")
		return
	}

	h.deps.Badge.SetBadge(*req.Count)
	respondOK(w)
}

func (h *Handler) handleShowWindow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Window == nil {
		respondError(w, http.StatusServiceUnavailable, "window is not available")
		return
	}

	h.deps.Window.Show()
	respondOK(w)
}

type openURLRequest struct {
	URL string `json:"url"`
}

func (h *Handler) handleOpenURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Opener == nil {
		respondError(w, http.StatusServiceUnavailable, "url opener is not available")
		return
	}

	var req openURLRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid url %q", req.URL))
		return
	}

	if err := h.deps.Opener.OpenURL(u); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(w)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"running":        true,
		"app_name":       h.config.App.Name,
		"uptime":         time.Since(h.started).Round(time.Second).String(),
		"guess_unknown":  h.config.Detect.GuessUnknown,
		"process_source": h.config.Detect.ProcessSource,
		"database_path":  h.config.Database.Path,
	}

	if h.deps.Window != nil {
		status["window"] = h.deps.Window.State().String()
	}

	if h.deps.Tracker != nil {
		status["tracker_running"] = h.deps.Tracker.IsRunning()
		status["poll_interval"] = h.config.Tracker.PollInterval.String()

		detection, session := h.deps.Tracker.Current()
		status["last_detection"] = detection
		if session != nil {
			status["current_session"] = session
		}
	}

	respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func respondOK(w http.ResponseWriter) {
	respondJSON(w, map[string]bool{"ok": true})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSONStatus(w, status, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	respondJSONStatus(w, http.StatusOK, data)
}

func respondJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
}
