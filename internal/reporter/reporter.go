package reporter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chitchat/desktop/internal/database"
	"github.com/chitchat/desktop/internal/models"
	"github.com/chitchat/desktop/pkg/utils"
)

// Periods accepted by GenerateReport
var Periods = []string{"day", "yesterday", "week", "month", "all"}

// Reporter builds play-time reports from recorded game sessions
type Reporter struct {
	repo *database.Repository
	now  func() time.Time
}

func New(repo *database.Repository) *Reporter {
	return &Reporter{
		repo: repo,
		now:  time.Now,
	}
}

// GenerateReport aggregates play time per game over the named period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	now := r.now()
	period, err := PeriodFor(periodType, now)
	if err != nil {
		return nil, err
	}

	summaries, err := r.repo.GetGameSummaryBetween(period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get game summary: %w", err)
	}

	games, total := summarize(summaries)
	return &models.Report{
		Period:       *period,
		Games:        games,
		TotalSeconds: total,
		TotalMinutes: float64(total) / 60,
		TotalHours:   float64(total) / 3600,
		GeneratedAt:  now,
	}, nil
}

// summarize fills the derived fields of per-game sums computed by SQL
func summarize(games []models.GameSummary) ([]models.GameSummary, int64) {
	if games == nil {
		return []models.GameSummary{}, 0
	}

	var total int64
	for _, g := range games {
		total += g.TotalSeconds
	}

	for i := range games {
		g := &games[i]
		g.TotalMinutes = float64(g.TotalSeconds) / 60
		g.TotalHours = float64(g.TotalSeconds) / 3600
		if total > 0 {
			g.Percentage = float64(g.TotalSeconds) * 100 / float64(total)
		}
	}
	return games, total
}

// PeriodFor returns the calendar range named by periodType that contains now,
// in now's location. Weeks start on Monday.
func PeriodFor(periodType string, now time.Time) (*models.ReportPeriod, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	period := &models.ReportPeriod{Type: periodType}
	switch periodType {
	case "day", "today":
		period.Start, period.End = today, today.AddDate(0, 0, 1)

	case "yesterday":
		period.Start, period.End = today.AddDate(0, 0, -1), today

	case "week":
		// Go's Sunday is 0
		sinceMonday := (int(now.Weekday()) + 6) % 7
		period.Start = today.AddDate(0, 0, -sinceMonday)
		period.End = period.Start.AddDate(0, 0, 7)

	case "month":
		period.Start = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		period.End = period.Start.AddDate(0, 1, 0)

	case "all":
		period.Start, period.End = time.Time{}, today.AddDate(0, 0, 1)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: %s)", periodType, strings.Join(Periods, ", "))
	}

	return period, nil
}

// FormatReportText formats the report as human-readable text
func FormatReportText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Play Time Report - %s\n", report.Period.Type)
	fmt.Fprintf(&b, "Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total Time: %s\n\n", utils.FormatPlayTime(report.TotalSeconds))

	if len(report.Games) == 0 {
		b.WriteString("No games played in this period.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-34s %10s %9s %8s\n", "Game", "Time", "Sessions", "Percent")
	b.WriteString(strings.Repeat("-", 64) + "\n")

	for _, game := range report.Games {
		fmt.Fprintf(&b, "%-34s %10s %9d %7.1f%%\n",
			truncate(game.GameName, 34),
			utils.FormatPlayTime(game.TotalSeconds),
			game.SessionCount,
			game.Percentage)
	}

	return b.String()
}

// FormatReportJSON formats the report as JSON
func FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// truncate truncates a string to the specified number of runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
