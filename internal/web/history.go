package web

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/chitchat/desktop/internal/models"
	"github.com/chitchat/desktop/internal/reporter"
	"github.com/chitchat/desktop/pkg/utils"
)

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Repo == nil {
		respondError(w, http.StatusServiceUnavailable, "play-time history is not available")
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	period, err := reporter.PeriodFor(periodType, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessions, err := h.deps.Repo.GetSessionsBetween(period.Start, period.End)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []*models.GameSession{}
	}

	respondJSON(w, sessions)
}

func (h *Handler) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.deps.Tracker != nil {
		detection, session := h.deps.Tracker.Current()
		if session == nil {
			respondError(w, http.StatusNotFound, "No game is being played")
			return
		}
		respondJSON(w, map[string]interface{}{
			"detection": detection,
			"session":   session,
		})
		return
	}

	if h.deps.Repo == nil {
		respondError(w, http.StatusServiceUnavailable, "play-time history is not available")
		return
	}

	session, err := h.deps.Repo.GetActiveSession()
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch current session: %v", err))
		return
	}
	if session == nil {
		respondError(w, http.StatusNotFound, "No game is being played")
		return
	}
	respondJSON(w, map[string]interface{}{"session": session})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.reporter == nil {
		respondError(w, http.StatusServiceUnavailable, "play-time history is not available")
		return
	}

	query := r.URL.Query()
	periodType := query.Get("period")
	if periodType == "" {
		periodType = "day"
	}
	if _, err := reporter.PeriodFor(periodType, time.Now()); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate report: %v", err))
		return
	}

	if query.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(reporter.FormatReportText(report)))
		return
	}

	respondJSON(w, report)
}

// handleSummary serves the report as an htmx fragment for the index page,
// or as JSON for other clients.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.reporter == nil {
		respondError(w, http.StatusServiceUnavailable, "play-time history is not available")
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}
	if _, err := reporter.PeriodFor(periodType, time.Now()); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get summary: %v", err))
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		respondSummaryHTML(w, report)
		return
	}

	respondJSON(w, report)
}

func respondSummaryHTML(w http.ResponseWriter, report *models.Report) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if len(report.Games) == 0 {
		_, _ = w.Write([]byte(`<div class="loading">No games played</div>`))
		return
	}

	var b strings.Builder
	b.WriteString(`<div class="listing">`)
	for _, game := range report.Games {
		fmt.Fprintf(&b, `
		<div class="game-item" style="--bar-width: %.1f%%">
			<span class="game-name">%s</span>
			<span class="game-time">%s</span>
		</div>`, game.Percentage, html.EscapeString(game.GameName), utils.FormatRoundedUnit(game.TotalSeconds))
	}
	b.WriteString(`</div>`)
	fmt.Fprintf(&b, `<div class="total">Total: %s</div>`, utils.FormatRoundedUnit(report.TotalSeconds))

	_, _ = w.Write([]byte(b.String()))
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>` + html.EscapeString(h.config.App.Name) + ` - Play Time</title>
    <script src="https://unpkg.com/htmx.org@1.9.10"></script>
    <style>
        body { font-family: system-ui, sans-serif; background: #16161d; color: #e0e0e0; padding: 20px; }
        .boxes { display: flex; gap: 20px; flex-wrap: wrap; }
        .box { flex: 1; min-width: 260px; background: #22222b; border-radius: 8px; padding: 20px; }
        .game-item { display: flex; justify-content: space-between; padding: 8px 4px; position: relative; }
        .game-item::before { content: ''; position: absolute; left: 0; top: 0; height: 100%;
            width: var(--bar-width, 0%); background: #7c5cff; opacity: 0.2; border-radius: 4px; }
        .game-time, .loading { color: #a0a0a0; }
        .total { margin-top: 16px; font-weight: 600; }
    </style>
</head>
<body>
    <h1>Play Time</h1>
    <div class="boxes">
        <div class="box">
            <h2>Today</h2>
            <div hx-get="/api/summary?period=day" hx-trigger="load, every 30s"><div class="loading">Loading...</div></div>
        </div>
        <div class="box">
            <h2>This Week</h2>
            <div hx-get="/api/summary?period=week" hx-trigger="load, every 30s"><div class="loading">Loading...</div></div>
        </div>
        <div class="box">
            <h2>This Month</h2>
            <div hx-get="/api/summary?period=month" hx-trigger="load, every 30s"><div class="loading">Loading...</div></div>
        </div>
    </div>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}
