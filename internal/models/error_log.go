package models

import (
	"time"
)

// ErrorLog records a storage failure seen by the play-time tracker
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Component string    `gorm:"not null;default:''" json:"component"`
	ErrorMsg  string    `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
