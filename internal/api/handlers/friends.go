package handlers

import (
	"errors"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/api/middleware"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// POST /users/{user_id}/add_friend
// AddFriend godoc
// @Summary Add a user to the caller's friends
// @Tags Users
// @Produce json
// @Param user_id path string true "Target user id"
// @Success 200 {object} handlers.UsersEnvelope
// @Failure 404 {object} map[string]string
// @Router /users/{user_id}/add_friend [post]
func AddFriend(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	friendID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	friend, err := repositories.GetUser(friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Re-adding an existing friend is a successful no-op.
	if err := repositories.AddFriend(user, friend); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to add friend")
		return
	}

	utils.JSONResponse(w, http.StatusOK, UsersEnvelope{
		Users: []UserResponse{serializeUser(*user)},
	})
}

// POST /users/{user_id}/remove_friend
func RemoveFriend(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	friendID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	friend, err := repositories.GetUser(friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	switch err := repositories.RemoveFriend(user, friend); {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFriend):
		utils.JSONError(w, http.StatusBadRequest, "User not in friends list")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Failed to remove friend")
		return
	}

	utils.JSONResponse(w, http.StatusOK, UsersEnvelope{
		Users: []UserResponse{serializeUser(*user)},
	})
}

// GET /users/get_friends_list
func GetFriendsList(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	friends, err := repositories.Friends(user)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, UsersEnvelope{
		Users: serializeUsers(friends),
	})
}
