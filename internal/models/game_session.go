package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameSession is one continuous stretch of play of the same game
type GameSession struct {
	ID              string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	GameName        string     `gorm:"not null;index" json:"game_name"`
	Executable      string     `gorm:"not null" json:"executable"`
	Kind            string     `gorm:"not null" json:"kind"` // "known" or "unknown"
	StartTime       time.Time  `gorm:"not null;index" json:"start_time"`
	LastSeen        time.Time  `gorm:"not null" json:"last_seen"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `gorm:"not null;default:0" json:"duration_seconds"`
	IsActive        bool       `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *GameSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// Duration is the play time recorded so far
func (s *GameSession) Duration() time.Duration {
	return time.Duration(s.DurationSeconds) * time.Second
}

type GameSummary struct {
	GameName     string  `json:"game_name"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	SessionCount int     `json:"session_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period       ReportPeriod  `json:"period"`
	Games        []GameSummary `json:"games"`
	TotalSeconds int64         `json:"total_seconds"`
	TotalMinutes float64       `json:"total_minutes"`
	TotalHours   float64       `json:"total_hours"`
	GeneratedAt  time.Time     `json:"generated_at"`
}
