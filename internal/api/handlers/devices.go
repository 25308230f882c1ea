package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/api/middleware"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
)

// POST /users/register_device
//
// Stores the device token that the push fan-out delivers to. Re-registering
// overwrites the previous token; a client has one active device at a time.
func RegisterDevice(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var input struct {
		DeviceToken string `json:"device_token" validate:"required"`
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

	user.DeviceToken = input.DeviceToken
	if err := repositories.DB.Model(user).Update("device_token", input.DeviceToken).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, UsersEnvelope{
		Users: []UserResponse{serializeUser(*user)},
	})
}
