package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chondosha/bookchat-server/internal/api"
	"github.com/chondosha/bookchat-server/internal/api/handlers"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	repositories.DB = db
	return api.SetupRouter()
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// signupAndLogin registers a user and returns their id and auth token.
func signupAndLogin(t *testing.T, router http.Handler, username string) (uuid.UUID, string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/users/create_user", "", map[string]string{
		"email":    username + "@example.org",
		"username": username,
		"password": "chondosha5563",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	users := decodeBody[handlers.UsersEnvelope](t, rec)
	require.Len(t, users.Users, 1)

	rec = doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": "chondosha5563",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeBody[handlers.TokenEnvelope](t, rec)
	require.NotEmpty(t, token.Token.Key)

	return users.Users[0].ID, token.Token.Key
}

func createGroup(t *testing.T, router http.Handler, token, name string) handlers.GroupResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/groups/create", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	groups := decodeBody[handlers.GroupsEnvelope](t, rec)
	require.Len(t, groups.Groups, 1)
	return groups.Groups[0]
}

func TestCreateUserNeverReturnsPassword(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/users/create_user", "", map[string]string{
		"email":    "user1234@example.org",
		"username": "chondosha",
		"password": "chondosha5563",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "chondosha5563")
}

func TestLoginRoundTrip(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "chondosha")
	assert.NotEmpty(t, token)

	rec := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "chondosha",
		"password": "anything-else",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginReusesToken(t *testing.T) {
	router := setupRouter(t)
	_, first := signupAndLogin(t, router, "chondosha")

	rec := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "chondosha",
		"password": "chondosha5563",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[handlers.TokenEnvelope](t, rec)
	assert.Equal(t, first, second.Token.Key)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router := setupRouter(t)
	signupAndLogin(t, router, "chondosha")

	wrongPassword := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "chondosha",
		"password": "wrongpassword",
	})
	noSuchUser := doJSON(t, router, http.MethodPost, "/login", "", map[string]string{
		"username": "fakeuser",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, noSuchUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), noSuchUser.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "Invalid credentials")
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/users/get_friends_list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users/get_friends_list", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetFriendsListEmpty(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "loner")

	rec := doJSON(t, router, http.MethodGet, "/users/get_friends_list", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody[handlers.UsersEnvelope](t, rec)
	require.NotNil(t, users.Users)
	assert.Empty(t, users.Users)
}

func TestFriendshipIsSymmetric(t *testing.T) {
	router := setupRouter(t)
	aliceID, aliceToken := signupAndLogin(t, router, "alice")
	bobID, bobToken := signupAndLogin(t, router, "bob")

	rec := doJSON(t, router, http.MethodPost, "/users/"+bobID.String()+"/add_friend", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/users/get_friends_list", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	aliceFriends := decodeBody[handlers.UsersEnvelope](t, rec)
	require.Len(t, aliceFriends.Users, 1)
	assert.Equal(t, bobID, aliceFriends.Users[0].ID)

	rec = doJSON(t, router, http.MethodGet, "/users/get_friends_list", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bobFriends := decodeBody[handlers.UsersEnvelope](t, rec)
	require.Len(t, bobFriends.Users, 1)
	assert.Equal(t, aliceID, bobFriends.Users[0].ID)
}

func TestAddFriendUnknownTarget(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "alice")

	rec := doJSON(t, router, http.MethodPost, "/users/"+uuid.NewString()+"/add_friend", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User does not exist")
}

func TestRemoveFriendNotInList(t *testing.T) {
	router := setupRouter(t)
	_, aliceToken := signupAndLogin(t, router, "alice")
	bobID, _ := signupAndLogin(t, router, "bob")

	rec := doJSON(t, router, http.MethodPost, "/users/"+bobID.String()+"/remove_friend", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not in friends list")
}

func TestCreateGroupAutoJoinsCreator(t *testing.T) {
	router := setupRouter(t)
	creatorID, token := signupAndLogin(t, router, "chondosha")

	group := createGroup(t, router, token, "Book Club")
	require.Len(t, group.Members, 1)
	assert.Equal(t, creatorID, group.Members[0].ID)
}

func TestAddMemberIsIdempotent(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "creator")
	otherID, _ := signupAndLogin(t, router, "other")

	group := createGroup(t, router, token, "Book Club")
	path := fmt.Sprintf("/groups/%s/%s/add_member", group.ID, otherID)

	rec := doJSON(t, router, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decodeBody[handlers.GroupsEnvelope](t, rec)
	require.Len(t, groups.Groups, 1)
	assert.Len(t, groups.Groups[0].Members, 2)
}

func TestRemoveMemberOfNonMemberFails(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "creator")
	otherID, _ := signupAndLogin(t, router, "other")

	group := createGroup(t, router, token, "Book Club")
	path := fmt.Sprintf("/groups/%s/%s/remove_member", group.ID, otherID)

	rec := doJSON(t, router, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a member")
}

func TestMembershipNotFoundResponses(t *testing.T) {
	router := setupRouter(t)
	userID, token := signupAndLogin(t, router, "creator")
	group := createGroup(t, router, token, "Book Club")

	rec := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/groups/%s/%s/add_member", uuid.NewString(), userID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Group does not exist")

	rec = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/groups/%s/%s/add_member", group.ID, uuid.NewString()), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User does not exist")
}

func TestGetMemberList(t *testing.T) {
	router := setupRouter(t)
	creatorID, token := signupAndLogin(t, router, "creator")
	group := createGroup(t, router, token, "Book Club")

	rec := doJSON(t, router, http.MethodGet, "/groups/"+group.ID.String()+"/members", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody[handlers.UsersEnvelope](t, rec)
	require.Len(t, users.Users, 1)
	assert.Equal(t, creatorID, users.Users[0].ID)
}

func TestConversationLifecycle(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "creator")
	group := createGroup(t, router, token, "Book Club")

	rec := doJSON(t, router, http.MethodPost, "/conversations/create", token, map[string]any{
		"book_title": "Moby Dick",
		"group":      group.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	conversations := decodeBody[handlers.ConversationsEnvelope](t, rec)
	require.Len(t, conversations.Conversations, 1)
	assert.Equal(t, "Moby Dick", conversations.Conversations[0].BookTitle)
	assert.Equal(t, group.ID, conversations.Conversations[0].Group)

	rec = doJSON(t, router, http.MethodGet, "/groups/"+group.ID.String()+"/conversations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[handlers.ConversationsEnvelope](t, rec)
	assert.Len(t, list.Conversations, 1)
}

func TestCreateConversationUnknownGroup(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "creator")

	rec := doJSON(t, router, http.MethodPost, "/conversations/create", token, map[string]any{
		"book_title": "Moby Dick",
		"group":      uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Group does not exist")
}

func TestSendAndGetMessagesNewestFirst(t *testing.T) {
	router := setupRouter(t)
	senderID, token := signupAndLogin(t, router, "sender")
	group := createGroup(t, router, token, "Book Club")

	rec := doJSON(t, router, http.MethodPost, "/conversations/create", token, map[string]any{
		"book_title": "Moby Dick",
		"group":      group.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	conversation := decodeBody[handlers.ConversationsEnvelope](t, rec).Conversations[0]

	for _, text := range []string{"first message", "second message"} {
		rec = doJSON(t, router, http.MethodPost, "/messages/send", token, map[string]any{
			"sender":       senderID,
			"conversation": conversation.ID,
			"text":         text,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		// Distinct timestamps keep the expected order unambiguous.
		time.Sleep(10 * time.Millisecond)
	}

	rec = doJSON(t, router, http.MethodGet, "/messages/"+conversation.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeBody[handlers.MessagesEnvelope](t, rec)
	require.Len(t, messages.Messages, 2)
	assert.Equal(t, "second message", messages.Messages[0].Text)
	assert.Equal(t, "first message", messages.Messages[1].Text)
	assert.False(t, messages.Messages[0].CreatedAt.Before(messages.Messages[1].CreatedAt))
}

func TestSendMessageUnknownConversation(t *testing.T) {
	router := setupRouter(t)
	senderID, token := signupAndLogin(t, router, "sender")

	rec := doJSON(t, router, http.MethodPost, "/messages/send", token, map[string]any{
		"sender":       senderID,
		"conversation": uuid.New(),
		"text":         "hello",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Conversation does not exist")
}

func TestSendMessageUnknownSender(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "sender")
	group := createGroup(t, router, token, "Book Club")

	rec := doJSON(t, router, http.MethodPost, "/conversations/create", token, map[string]any{
		"book_title": "Moby Dick",
		"group":      group.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	conversation := decodeBody[handlers.ConversationsEnvelope](t, rec).Conversations[0]

	rec = doJSON(t, router, http.MethodPost, "/messages/send", token, map[string]any{
		"sender":       uuid.New(),
		"conversation": conversation.ID,
		"text":         "hello",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User does not exist")
}

func TestGetGroupListForUser(t *testing.T) {
	router := setupRouter(t)
	userID, token := signupAndLogin(t, router, "reader")
	createGroup(t, router, token, "Sci-Fi Club")
	createGroup(t, router, token, "History Club")

	rec := doJSON(t, router, http.MethodGet, "/users/"+userID.String()+"/groups", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decodeBody[handlers.GroupsEnvelope](t, rec)
	assert.Len(t, groups.Groups, 2)
}

func TestLogoutRevokesToken(t *testing.T) {
	router := setupRouter(t)
	_, token := signupAndLogin(t, router, "chondosha")

	rec := doJSON(t, router, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users/get_friends_list", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDevice(t *testing.T) {
	router := setupRouter(t)
	userID, token := signupAndLogin(t, router, "mobile")

	rec := doJSON(t, router, http.MethodPost, "/users/register_device", token, map[string]string{
		"device_token": "device-abc-123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := repositories.GetUser(userID)
	require.NoError(t, err)
	assert.Equal(t, "device-abc-123", user.DeviceToken)
}
