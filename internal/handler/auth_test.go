package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/AngelP17/ticketing/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) (*gin.Engine, auth.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	provider := auth.NewFileProvider(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, provider.Create(context.Background(),
		auth.User{Username: "admin", DisplayName: "Administrator", Role: auth.RoleAdmin}, "admin123"))
	require.NoError(t, provider.Create(context.Background(),
		auth.User{Username: "viewer", Role: auth.RoleViewer}, "viewer123"))

	h := NewAuthHandler(provider, testSecret)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	authed := r.Group("/", auth.Required(provider, testSecret))
	authed.GET("/auth/me", h.Me)
	authed.POST("/auth/change-password", h.ChangePassword)
	admin := authed.Group("/users", auth.AdminRequired())
	admin.POST("", h.CreateUser)
	admin.GET("", h.ListUsers)
	admin.DELETE("/:username", h.DeleteUser)
	return r, provider
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doAuthed(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := newJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func TestLoginAndMe(t *testing.T) {
	r, _ := newAuthRouter(t)
	token := login(t, r, "admin", "admin123")

	w := doAuthed(t, r, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me auth.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, auth.RoleAdmin, me.Role)
	assert.NotContains(t, w.Body.String(), "password_hash", "hashes never leave the API")
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := newAuthRouter(t)
	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := doJSON(t, r, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no token")

	w = doAuthed(t, r, http.MethodGet, "/auth/me", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "bad token")
}

func TestAdminRequired(t *testing.T) {
	r, _ := newAuthRouter(t)
	viewerToken := login(t, r, "viewer", "viewer123")

	w := doAuthed(t, r, http.MethodGet, "/users", viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := login(t, r, "admin", "admin123")
	w = doAuthed(t, r, http.MethodGet, "/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePassword(t *testing.T) {
	r, _ := newAuthRouter(t)
	token := login(t, r, "viewer", "viewer123")

	w := doAuthed(t, r, http.MethodPost, "/auth/change-password", token,
		gin.H{"current_password": "wrong", "new_password": "next"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "must prove the current password")

	w = doAuthed(t, r, http.MethodPost, "/auth/change-password", token,
		gin.H{"current_password": "viewer123", "new_password": "next"})
	require.Equal(t, http.StatusOK, w.Code)

	login(t, r, "viewer", "next")
}

func TestCreateAndDeleteUser(t *testing.T) {
	r, provider := newAuthRouter(t)
	token := login(t, r, "admin", "admin123")

	w := doAuthed(t, r, http.MethodPost, "/users", token,
		gin.H{"username": "agent1", "password": "pw", "role": auth.RoleAgent})
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := provider.Lookup(context.Background(), "agent1")
	require.NoError(t, err)
	assert.Equal(t, "agent1", u.DisplayName, "display name defaults to the username")

	w = doAuthed(t, r, http.MethodPost, "/users", token,
		gin.H{"username": "agent1", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate username")

	w = doAuthed(t, r, http.MethodDelete, "/users/admin", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "cannot delete yourself")

	w = doAuthed(t, r, http.MethodDelete, "/users/agent1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
