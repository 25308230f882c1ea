package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `json:"conversation" gorm:"type:uuid;index;not null"`
	SenderID       uuid.UUID `json:"sender" gorm:"type:uuid;index;not null"`
	Sender         User      `json:"-" gorm:"foreignKey:SenderID"`
	Text           string    `json:"text" gorm:"type:text;not null"`
	// Assigned server-side on insert, immutable afterwards.
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
