package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/chondosha/bookchat-server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/chondosha/bookchat-server/internal/api/handlers"
	"github.com/chondosha/bookchat-server/internal/api/middleware"
	"github.com/chondosha/bookchat-server/internal/config"
	"github.com/rs/cors"
)

func SetupRouter() http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("/users/create_user", handlers.CreateUser)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/auth/google/login", handlers.HandleGoogleLogin)
	mux.HandleFunc("/auth/google/callback", handlers.HandleGoogleCallback)

	// ---------- PROTECTED ROUTES ----------
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}

	mux.Handle("POST /logout", protected(handlers.Logout))

	mux.Handle("GET /users/get_friends_list", protected(handlers.GetFriendsList))
	mux.Handle("POST /users/{user_id}/add_friend", protected(handlers.AddFriend))
	mux.Handle("POST /users/{user_id}/remove_friend", protected(handlers.RemoveFriend))
	mux.Handle("GET /users/{user_id}/groups", protected(handlers.GetGroupList))
	mux.Handle("POST /users/register_device", protected(handlers.RegisterDevice))
	mux.Handle("POST /users/set_picture", protected(handlers.SetUserPicture))

	mux.Handle("POST /groups/create", protected(handlers.CreateGroup))
	mux.Handle("POST /groups/{group_id}/{user_id}/add_member", protected(handlers.AddMember))
	mux.Handle("POST /groups/{group_id}/{user_id}/remove_member", protected(handlers.RemoveMember))
	mux.Handle("GET /groups/{group_id}/members", protected(handlers.GetMemberList))
	mux.Handle("GET /groups/{group_id}/conversations", protected(handlers.GetConversationList))
	mux.Handle("POST /groups/{group_id}/set_picture", protected(handlers.SetGroupPicture))

	mux.Handle("POST /conversations/create", protected(handlers.CreateConversation))
	mux.Handle("POST /conversations/{conversation_id}/set_picture", protected(handlers.SetConversationPicture))

	mux.Handle("POST /messages/send", protected(handlers.SendMessage))
	mux.Handle("GET /messages/{conversation_id}", protected(handlers.GetMessages))

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
