package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/chondosha/bookchat-server/internal/utils"
)

type contextKey string

const userKey contextKey = "currentUser"

// AuthMiddleware resolves the bearer token to its user and threads the
// authenticated principal into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		key := tokenFromHeader(r)
		if key == "" {
			utils.JSONDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided")
			return
		}

		user, err := repositories.GetUserByToken(key)
		if err != nil || !user.IsActive {
			utils.JSONDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the authenticated principal set by AuthMiddleware.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

func tokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
