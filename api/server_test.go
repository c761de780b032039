package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"beepit/domain"
	"beepit/runtime"
	"beepit/runtime/workers"
)

func startServer(t *testing.T) (*httptest.Server, *runtime.Orchestrator) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	sup := workers.NewSupervisor(log, 50*time.Millisecond)
	orchestrator := runtime.NewOrchestrator(log, sup, 64)

	ctx, cancel := context.WithCancel(context.Background())
	orchestrator.Start(ctx)

	mux := http.NewServeMux()
	NewServer(log, orchestrator).Routes(mux)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		cancel()
		orchestrator.Stop()
	})
	return server, orchestrator
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_Health(t *testing.T) {
	req := require.New(t)
	server, _ := startServer(t)

	var body map[string]string
	resp := getJSON(t, server.URL+"/api/health", &body)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Equal("UP", body["status"])
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	req := require.New(t)
	server, _ := startServer(t)

	// Register
	resp := postJSON(t, server.URL+"/api/auth/register", credentialsRequest{Username: "Zoe", Password: "secret1"})
	req.Equal(http.StatusOK, resp.StatusCode)
	registered := decode[authResponse](t, resp)
	req.NotEmpty(registered.UserID)
	req.Equal("Zoe", registered.Username)

	// Duplicate registration conflicts with a 400
	resp = postJSON(t, server.URL+"/api/auth/register", credentialsRequest{Username: "zoe", Password: "other"})
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	// Login succeeds with the registered secret
	resp = postJSON(t, server.URL+"/api/auth/login", credentialsRequest{Username: "zoe", Password: "secret1"})
	req.Equal(http.StatusOK, resp.StatusCode)
	loggedIn := decode[authResponse](t, resp)
	req.Equal(registered.UserID, loggedIn.UserID)

	// Wrong secret is a 401, unknown user a 404
	resp = postJSON(t, server.URL+"/api/auth/login", credentialsRequest{Username: "zoe", Password: "wrong"})
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp = postJSON(t, server.URL+"/api/auth/login", credentialsRequest{Username: "nobody", Password: "secret1"})
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ListUsersIncludesSeeds(t *testing.T) {
	req := require.New(t)
	server, _ := startServer(t)

	var users []domain.AppUser
	resp := getJSON(t, server.URL+"/api/auth/users", &users)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Len(users, 5)

	// Secrets never leave the directory
	for _, user := range users {
		req.Empty(user.Password)
	}
}

func TestAPI_Contacts(t *testing.T) {
	req := require.New(t)
	server, orchestrator := startServer(t)
	ctx := context.Background()

	zoe, err := orchestrator.RegisterUser(ctx, "Zoe", "secret1")
	req.NoError(err)
	yann, err := orchestrator.RegisterUser(ctx, "Yann", "secret2")
	req.NoError(err)

	resp := postJSON(t, server.URL+"/api/auth/contacts/add", addContactRequest{UserID: zoe.UserID, ContactID: yann.UserID})
	req.Equal(http.StatusOK, resp.StatusCode)

	var contacts []domain.Contact
	resp = getJSON(t, server.URL+"/api/auth/contacts/"+zoe.UserID, &contacts)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Len(contacts, 1)
	req.Equal(yann.UserID, contacts[0].UserID)

	// Adding a contact to an unknown user is a 404
	resp = postJSON(t, server.URL+"/api/auth/contacts/add", addContactRequest{UserID: "ghost", ContactID: yann.UserID})
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Conversations(t *testing.T) {
	req := require.New(t)
	server, orchestrator := startServer(t)
	ctx := context.Background()

	zoe, err := orchestrator.RegisterUser(ctx, "Zoe", "secret1")
	req.NoError(err)
	yann, err := orchestrator.RegisterUser(ctx, "Yann", "secret2")
	req.NoError(err)
	req.NoError(orchestrator.AddContact(ctx, zoe.UserID, yann.UserID))

	_, err = orchestrator.SendPrivateMessage(ctx, yann.UserID, zoe.UserID, "hello")
	req.NoError(err)

	// Zoe's view: Yann is the counterpart, a contact, with one unread
	var infos []conversationInfo
	resp := getJSON(t, server.URL+"/api/auth/conversations/"+zoe.UserID, &infos)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Len(infos, 1)
	req.Equal(yann.UserID, infos[0].OtherUserID)
	req.True(infos[0].IsContact)
	req.Equal(1, infos[0].UnreadCount)
	req.NotNil(infos[0].LastMessage)
	req.Equal("hello", infos[0].LastMessage.Content)

	// Yann's view of the same conversation: Zoe is not his contact and his
	// own message is not unread for him
	infos = nil
	getJSON(t, server.URL+"/api/auth/conversations/"+yann.UserID, &infos)
	req.Len(infos, 1)
	req.Equal(zoe.UserID, infos[0].OtherUserID)
	req.False(infos[0].IsContact)
	req.Zero(infos[0].UnreadCount)

	// Unregistered participants still render their conversations
	_, err = orchestrator.SendPrivateMessage(ctx, "A", "B", "hey")
	req.NoError(err)
	infos = nil
	resp = getJSON(t, server.URL+"/api/auth/conversations/A", &infos)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Len(infos, 1)
	req.Equal("B", infos[0].OtherUserID)
	req.False(infos[0].IsContact)

	// A user with no history gets an empty list, not an error
	infos = nil
	resp = getJSON(t, server.URL+"/api/auth/conversations/nobody", &infos)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Empty(infos)
}
