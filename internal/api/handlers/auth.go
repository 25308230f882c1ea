package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chondosha/bookchat-server/internal/api/middleware"
)

var validate = validator.New()

// POST /users/create_user
// CreateUser godoc
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Success 201 {object} handlers.UsersEnvelope
// @Failure 400 {object} map[string]string
// @Router /users/create_user [post]
func CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
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

	// Uniqueness checks up front for friendly errors; the unique indexes
	// still hold the line under concurrent signups.
	var existing models.User
	if err := repositories.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		utils.JSONError(w, http.StatusBadRequest, "Username is already taken")
		return
	}
	err := repositories.DB.Where("email = ?", input.Email).First(&existing).Error

	switch {
	case err == nil:
		utils.JSONError(w, http.StatusBadRequest, "User already exists with this email")
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		user := models.User{
			Email:    input.Email,
			Username: input.Username,
			Password: string(hashed),
			IsActive: true,
		}
		if createErr := repositories.DB.Create(&user).Error; createErr != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
			return
		}

		utils.JSONResponse(w, http.StatusCreated, UsersEnvelope{
			Users: []UserResponse{serializeUser(user)},
		})

	default:
		utils.JSONError(w, http.StatusInternalServerError, "Database query failed")
	}
}

// POST /login
// Login godoc
// @Summary Exchange credentials for the user's persistent token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} handlers.TokenEnvelope
// @Failure 401 {object} map[string]string
// @Router /login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.Username == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Unknown user and wrong password produce the same body so the
	// endpoint can't be used to enumerate accounts.
	var user models.User
	err := repositories.DB.Where("username = ?", input.Username).First(&user).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.JSONDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.JSONDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := repositories.GetOrCreateToken(user.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	utils.JSONResponse(w, http.StatusOK, TokenEnvelope{
		Token: TokenResponse{Key: token.Key},
	})
}

// POST /logout
func Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	if err := repositories.DeleteToken(user.ID); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to revoke token")
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}
