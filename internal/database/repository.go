package database

import (
	"fmt"
	"time"

	"github.com/chitchat/desktop/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for game sessions
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// StartSession opens a new active session for a game first seen at the given time
func (r *Repository) StartSession(gameName, executable, kind string, at time.Time) (*models.GameSession, error) {
	session := &models.GameSession{
		GameName:   gameName,
		Executable: executable,
		Kind:       kind,
		StartTime:  at,
		LastSeen:   at,
		IsActive:   true,
	}

	result := r.db.Create(session)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to insert game session")
	}
	return session, nil
}

// TouchSession extends a session up to the given time
func (r *Repository) TouchSession(session *models.GameSession, at time.Time) error {
	session.LastSeen = at
	session.DurationSeconds = elapsedSeconds(session.StartTime, at)

	result := r.db.Model(session).Updates(map[string]interface{}{
		"last_seen":        session.LastSeen,
		"duration_seconds": session.DurationSeconds,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update game session")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// EndSession closes a session at the given time
func (r *Repository) EndSession(session *models.GameSession, at time.Time) error {
	session.LastSeen = at
	session.EndTime = &at
	session.IsActive = false
	session.DurationSeconds = elapsedSeconds(session.StartTime, at)

	result := r.db.Model(session).Updates(map[string]interface{}{
		"last_seen":        session.LastSeen,
		"end_time":         at,
		"is_active":        false,
		"duration_seconds": session.DurationSeconds,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to end game session")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// GetActiveSession returns the session currently being played, or nil
func (r *Repository) GetActiveSession() (*models.GameSession, error) {
	var session models.GameSession
	result := r.db.Where("is_active = ?", true).Order("start_time DESC").First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get active session")
	}
	return &session, nil
}

// GetByID retrieves a game session by its ID
func (r *Repository) GetByID(id string) (*models.GameSession, error) {
	var session models.GameSession
	result := r.db.Where("id = ?", id).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get game session")
	}
	return &session, nil
}

// GetSessionsSince retrieves all sessions started at or after since, oldest first
func (r *Repository) GetSessionsSince(since time.Time) ([]*models.GameSession, error) {
	var sessions []*models.GameSession
	result := r.db.Where("start_time >= ?", since).Order("start_time ASC").Find(&sessions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query game sessions")
	}

	return sessions, nil
}

// GetSessionsBetween retrieves sessions started in [start, end), oldest first
func (r *Repository) GetSessionsBetween(start, end time.Time) ([]*models.GameSession, error) {
	var sessions []*models.GameSession
	result := r.db.Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&sessions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query game sessions")
	}

	return sessions, nil
}

// GetGameSummaryBetween sums play time per game for sessions started in [start, end),
// longest first
func (r *Repository) GetGameSummaryBetween(start, end time.Time) ([]models.GameSummary, error) {
	var summaries []models.GameSummary

	result := r.db.Model(&models.GameSession{}).
		Select("game_name, SUM(duration_seconds) as total_seconds, COUNT(*) as session_count").
		Where("start_time >= ? AND start_time < ?", start, end).
		Group("game_name").
		Order("total_seconds DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query game summary")
	}

	return summaries, nil
}

// CloseActiveSessions ends sessions left active by a previous run.
// They are closed at the last time the game was seen.
func (r *Repository) CloseActiveSessions() (int64, error) {
	result := r.db.Model(&models.GameSession{}).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{
			"is_active": false,
			"end_time":  gorm.Expr("last_seen"),
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to close stale sessions")
	}
	return result.RowsAffected, nil
}

// DeleteSessionsBefore removes finished sessions started before a given time
func (r *Repository) DeleteSessionsBefore(before time.Time) (int64, error) {
	result := r.db.Where("start_time < ? AND is_active = ?", before, false).Delete(&models.GameSession{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old sessions")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetRecentErrors returns the newest error logs first
func (r *Repository) GetRecentErrors(limit int) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// Clear removes all game sessions from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM game_sessions")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear game sessions")
	}
	return nil
}

func elapsedSeconds(start, end time.Time) int64 {
	if end.Before(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}
