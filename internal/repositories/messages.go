package repositories

import (
	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/google/uuid"
)

// CreateConversation creates a conversation in an existing group.
func CreateConversation(bookTitle string, group *models.Group) (*models.Conversation, error) {
	conversation := models.Conversation{
		BookTitle: bookTitle,
		GroupID:   group.ID,
	}
	if err := DB.Create(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ConversationsOf returns the group's conversations, never nil.
func ConversationsOf(groupID uuid.UUID) ([]models.Conversation, error) {
	conversations := make([]models.Conversation, 0)
	err := DB.Where("group_id = ?", groupID).Find(&conversations).Error
	return conversations, err
}

// CreateMessage persists a message with a server-assigned timestamp.
func CreateMessage(sender *models.User, conversation *models.Conversation, text string) (*models.Message, error) {
	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       sender.ID,
		Text:           text,
	}
	if err := DB.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// MessagesIn returns a conversation's messages newest-first. The id
// tiebreak keeps the order stable for messages sharing a timestamp.
func MessagesIn(conversationID uuid.UUID) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id").
		Find(&messages).Error
	return messages, err
}
