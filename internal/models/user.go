package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null"`
	Password    string    `json:"-" gorm:"not null"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	IsStaff     bool      `json:"isStaff" gorm:"default:false"`
	Picture     string    `json:"picture"`
	DeviceToken string    `json:"-"`
	// Stored undirected: AddFriend writes both (A,B) and (B,A) rows.
	Friends   []*User   `json:"-" gorm:"many2many:user_friends"`
	Groups    []*Group  `json:"-" gorm:"many2many:group_members"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
