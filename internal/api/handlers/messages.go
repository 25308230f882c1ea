package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/api/services"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// POST /messages/send
// SendMessage godoc
// @Summary Send a message to a conversation
// @Tags Messages
// @Accept json
// @Produce json
// @Success 201 {object} handlers.MessagesEnvelope
// @Failure 404 {object} map[string]string
// @Router /messages/send [post]
func SendMessage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Sender       uuid.UUID `json:"sender" validate:"required"`
		Conversation uuid.UUID `json:"conversation" validate:"required"`
		Text         string    `json:"text" validate:"required"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	sender, err := repositories.GetUser(input.Sender)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	conversation, err := repositories.GetConversation(input.Conversation)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Conversation does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	message, err := repositories.CreateMessage(sender, conversation, input.Text)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	// Fan-out runs detached; the message is committed whether or not any
	// push delivery succeeds.
	go services.NotifyNewMessage(*message, *sender, conversation.GroupID)

	utils.JSONResponse(w, http.StatusCreated, MessagesEnvelope{
		Messages: []MessageResponse{serializeMessage(*message)},
	})
}

// GET /messages/{conversation_id}
//
// Messages come back newest-first; clients render the latest message at
// the top of the thread.
func GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("conversation_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid conversation id")
		return
	}

	if _, err := repositories.GetConversation(conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Conversation does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	messages, err := repositories.MessagesIn(conversationID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, MessagesEnvelope{
		Messages: serializeMessages(messages),
	})
}
