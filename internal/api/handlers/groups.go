package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/api/middleware"
	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// loadGroupAndUser resolves the {group_id}/{user_id} pair used by the
// membership endpoints, writing the 4xx response itself on failure.
func loadGroupAndUser(w http.ResponseWriter, r *http.Request) (*models.Group, *models.User, bool) {
	groupID, err := uuid.Parse(r.PathValue("group_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid group id")
		return nil, nil, false
	}
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return nil, nil, false
	}

	group, err := repositories.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Group does not exist")
			return nil, nil, false
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return nil, nil, false
	}
	user, err := repositories.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User does not exist")
			return nil, nil, false
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return nil, nil, false
	}
	return group, user, true
}

func respondWithGroup(w http.ResponseWriter, status int, groupID uuid.UUID) {
	group, err := repositories.GetGroupWithMembers(groupID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONResponse(w, status, GroupsEnvelope{
		Groups: []GroupResponse{serializeGroup(*group)},
	})
}

// POST /groups/create
// CreateGroup godoc
// @Summary Create a group with the caller as its first member
// @Tags Groups
// @Accept json
// @Produce json
// @Success 201 {object} handlers.GroupsEnvelope
// @Failure 400 {object} map[string]string
// @Router /groups/create [post]
func CreateGroup(w http.ResponseWriter, r *http.Request) {
	creator := middleware.CurrentUser(r)

	var input struct {
		Name string `json:"name" validate:"required"`
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

	group, err := repositories.CreateGroup(input.Name, creator)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, GroupsEnvelope{
		Groups: []GroupResponse{serializeGroup(*group)},
	})
}

// POST /groups/{group_id}/{user_id}/add_member
func AddMember(w http.ResponseWriter, r *http.Request) {
	group, user, ok := loadGroupAndUser(w, r)
	if !ok {
		return
	}

	// Adding a current member succeeds with unchanged state.
	if err := repositories.AddMember(group, user); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to add member")
		return
	}

	respondWithGroup(w, http.StatusOK, group.ID)
}

// POST /groups/{group_id}/{user_id}/remove_member
func RemoveMember(w http.ResponseWriter, r *http.Request) {
	group, user, ok := loadGroupAndUser(w, r)
	if !ok {
		return
	}

	switch err := repositories.RemoveMember(group, user); {
	case err == nil:
	case errors.Is(err, repositories.ErrNotMember):
		utils.JSONError(w, http.StatusNotFound, "User is not a member of this group")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Failed to remove member")
		return
	}

	respondWithGroup(w, http.StatusOK, group.ID)
}

// GET /groups/{group_id}/members
func GetMemberList(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.PathValue("group_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	members, err := repositories.Members(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Group does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, UsersEnvelope{
		Users: serializeUsers(members),
	})
}

// GET /users/{user_id}/groups
func GetGroupList(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := repositories.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User does not exist")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	groups, err := repositories.GroupsOf(user)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, GroupsEnvelope{
		Groups: serializeGroups(groups),
	})
}
