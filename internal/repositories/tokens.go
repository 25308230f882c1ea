package repositories

import (
	"errors"

	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrCreateToken returns the user's persistent auth token, issuing one
// on first login. A user has at most one active token.
func GetOrCreateToken(userID uuid.UUID) (*models.AuthToken, error) {
	var token models.AuthToken
	err := DB.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key, err := utils.GenerateSecureToken(32) // 256-bit token
	if err != nil {
		return nil, err
	}
	token = models.AuthToken{Key: key, UserID: userID}
	if err := DB.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// GetUserByToken resolves a bearer token key to its user.
func GetUserByToken(key string) (*models.User, error) {
	var token models.AuthToken
	if err := DB.Preload("User").First(&token, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &token.User, nil
}

// DeleteToken revokes the user's token. Missing rows are not an error.
func DeleteToken(userID uuid.UUID) error {
	return DB.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
