package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// POST /conversations/create
func CreateConversation(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BookTitle string    `json:"book_title" validate:"required"`
		Group     uuid.UUID `json:"group" validate:"required"`
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

	group, err := repositories.GetGroup(input.Group)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Group does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	conversation, err := repositories.CreateConversation(input.BookTitle, group)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, ConversationsEnvelope{
		Conversations: []ConversationResponse{serializeConversation(*conversation)},
	})
}

// GET /groups/{group_id}/conversations
func GetConversationList(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.PathValue("group_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	if _, err := repositories.GetGroup(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Group does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	conversations, err := repositories.ConversationsOf(groupID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, ConversationsEnvelope{
		Conversations: serializeConversations(conversations),
	})
}
