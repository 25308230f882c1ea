package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is the single long-lived credential issued at login.
// One row per user; re-login returns the existing key.
type AuthToken struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}
