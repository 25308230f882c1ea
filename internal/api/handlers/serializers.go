package handlers

import (
	"time"

	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Fixed, versioned response shapes. Models never reach the wire directly.

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	IsActive bool      `json:"isActive"`
	IsStaff  bool      `json:"isStaff"`
	Picture  string    `json:"picture"`
}

type GroupResponse struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	Picture string         `json:"picture"`
	Members []UserResponse `json:"members"`
}

type ConversationResponse struct {
	ID        uuid.UUID `json:"id"`
	BookTitle string    `json:"bookTitle"`
	Picture   string    `json:"picture"`
	Group     uuid.UUID `json:"group"`
}

type MessageResponse struct {
	ID           uuid.UUID `json:"id"`
	Sender       uuid.UUID `json:"sender"`
	Conversation uuid.UUID `json:"conversation"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TokenResponse struct {
	Key string `json:"key"`
}

type UsersEnvelope struct {
	Users []UserResponse `json:"users"`
}

type GroupsEnvelope struct {
	Groups []GroupResponse `json:"groups"`
}

type ConversationsEnvelope struct {
	Conversations []ConversationResponse `json:"conversations"`
}

type MessagesEnvelope struct {
	Messages []MessageResponse `json:"messages"`
}

type TokenEnvelope struct {
	Token TokenResponse `json:"token"`
}

func serializeUser(u models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		IsActive: u.IsActive,
		IsStaff:  u.IsStaff,
		Picture:  u.Picture,
	}
}

func serializeUsers(users []models.User) []UserResponse {
	return lo.Map(users, func(u models.User, _ int) UserResponse {
		return serializeUser(u)
	})
}

func serializeGroup(g models.Group) GroupResponse {
	return GroupResponse{
		ID:      g.ID,
		Name:    g.Name,
		Picture: g.Picture,
		Members: lo.Map(g.Members, func(m *models.User, _ int) UserResponse {
			return serializeUser(*m)
		}),
	}
}

func serializeGroups(groups []models.Group) []GroupResponse {
	return lo.Map(groups, func(g models.Group, _ int) GroupResponse {
		return serializeGroup(g)
	})
}

func serializeConversation(c models.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		BookTitle: c.BookTitle,
		Picture:   c.Picture,
		Group:     c.GroupID,
	}
}

func serializeConversations(conversations []models.Conversation) []ConversationResponse {
	return lo.Map(conversations, func(c models.Conversation, _ int) ConversationResponse {
		return serializeConversation(c)
	})
}

func serializeMessage(m models.Message) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		Sender:       m.SenderID,
		Conversation: m.ConversationID,
		Text:         m.Text,
		CreatedAt:    m.CreatedAt,
	}
}

func serializeMessages(messages []models.Message) []MessageResponse {
	return lo.Map(messages, func(m models.Message, _ int) MessageResponse {
		return serializeMessage(m)
	})
}
