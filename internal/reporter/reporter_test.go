package reporter

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitchat/desktop/internal/database"
	"github.com/chitchat/desktop/internal/models"
)

func TestPeriodFor(t *testing.T) {
	// Thursday
	now := time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		period    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"day", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"month", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"all", time.Time{}, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			p, err := PeriodFor(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
			assert.Equal(t, tt.period, p.Type)
		})
	}

	_, err := PeriodFor("year", now)
	assert.ErrorContains(t, err, "invalid period type: year")
}

func TestPeriodForSundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	p, err := PeriodFor("week", sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), p.Start)
}

func TestGenerateReport(t *testing.T) {
	db, err := database.Connect(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { _ = db.Close() })
	repo := database.NewRepository(db)

	now := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	play := func(game string, startedAt time.Time, d time.Duration) {
		s, err := repo.StartSession(game, "x.exe", "known", startedAt)
		require.NoError(t, err)
		require.NoError(t, repo.EndSession(s, startedAt.Add(d)))
	}
	play("Dota 2", now.Add(-3*time.Hour), 90*time.Minute)
	play("Rust", now.Add(-time.Hour), 30*time.Minute)
	play("Rust", now.Add(-72*time.Hour), 30*time.Minute)

	r := New(repo)
	r.now = func() time.Time { return now }

	report, err := r.GenerateReport("day")
	require.NoError(t, err)

	require.Len(t, report.Games, 2)
	assert.Equal(t, int64(7200), report.TotalSeconds)
	assert.InDelta(t, 2.0, report.TotalHours, 0.001)
	assert.Equal(t, "Dota 2", report.Games[0].GameName)
	assert.InDelta(t, 75.0, report.Games[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, report.Games[1].Percentage, 0.001)

	text := FormatReportText(report)
	assert.Contains(t, text, "Play Time Report - day")
	assert.Contains(t, text, "Total Time: 2h 00m")
	assert.Contains(t, text, "1h 30m")

	out, err := FormatReportJSON(report)
	require.NoError(t, err)
	var decoded models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, report.TotalSeconds, decoded.TotalSeconds)

	all, err := r.GenerateReport("all")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), all.TotalSeconds)
	assert.Equal(t, "Dota 2", all.Games[0].GameName)
	assert.Equal(t, 2, all.Games[1].SessionCount)

	yesterday, err := r.GenerateReport("yesterday")
	require.NoError(t, err)
	assert.Empty(t, yesterday.Games)
	assert.Zero(t, yesterday.TotalSeconds)
}

func TestFormatReportTextEmpty(t *testing.T) {
	report := &models.Report{Period: models.ReportPeriod{Type: "week"}, Games: []models.GameSummary{}}
	assert.Contains(t, FormatReportText(report), "No games played in this period.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Halo: T...", truncate("Halo: The Master Chief Collection", 10))
}
