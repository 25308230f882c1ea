package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/api/middleware"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pictureInput struct {
	Image string `json:"image" validate:"required"`
}

// decodePictureInput reads and decodes a base64 image payload, writing
// the 400 response itself when the payload is unusable.
func decodePictureInput(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var input pictureInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return nil, false
	}
	if err := validate.Struct(input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return nil, false
	}

	data, err := utils.DecodeBase64Image(input.Image)
	if err != nil || len(data) == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Invalid image data")
		return nil, false
	}
	return data, true
}

// POST /users/set_picture
func SetUserPicture(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	data, ok := decodePictureInput(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("users/%s", user.ID)
	if err := repositories.StorePicture(r.Context(), key, data); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to store picture")
		return
	}

	user.Picture = key
	if err := repositories.DB.Model(user).Update("picture", key).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, UsersEnvelope{
		Users: []UserResponse{serializeUser(*user)},
	})
}

// POST /groups/{group_id}/set_picture
func SetGroupPicture(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.PathValue("group_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	group, err := repositories.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Group does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	data, ok := decodePictureInput(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("groups/%s", group.ID)
	if err := repositories.StorePicture(r.Context(), key, data); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to store picture")
		return
	}

	if err := repositories.DB.Model(group).Update("picture", key).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondWithGroup(w, http.StatusOK, group.ID)
}

// POST /conversations/{conversation_id}/set_picture
func SetConversationPicture(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("conversation_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid conversation id")
		return
	}

	conversation, err := repositories.GetConversation(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Conversation does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	data, ok := decodePictureInput(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("conversations/%s", conversation.ID)
	if err := repositories.StorePicture(r.Context(), key, data); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to store picture")
		return
	}

	conversation.Picture = key
	if err := repositories.DB.Model(conversation).Update("picture", key).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, ConversationsEnvelope{
		Conversations: []ConversationResponse{serializeConversation(*conversation)},
	})
}
