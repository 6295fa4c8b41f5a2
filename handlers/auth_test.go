package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sophro-cabinet/site-backend/internal/admins"
	"github.com/sophro-cabinet/site-backend/internal/sessions"
	"github.com/sophro-cabinet/site-backend/internal/tokens"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "handlers-test-secret-0123456789abcdef"
	testEmail    = "cabinet@example.fr"
	testPassword = "motdepasse-solide"
)

// newAdminRouter wires the auth routes the same way main does.
func newAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := admins.NewService(admins.NewMemoryRepository(), testSecret, time.Hour)
	created, err := svc.EnsureAdmin(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.True(t, created)

	h := NewAuthHandler(svc)
	g := gin.New()
	g.Use(middleware.ErrorHandler(false))
	admin := g.Group("/admin")
	h.RegisterLogin(admin)
	protected := admin.Group("")
	protected.Use(middleware.AdminAuth(tokens.NewVerifier(testSecret), svc))
	h.Register(protected)
	return g
}

func call(g http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, g http.Handler, email, password string) string {
	t.Helper()
	w := call(g, http.MethodPost, "/admin/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Admin   struct {
			Email string `json:"email"`
		} `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, testEmail, resp.Admin.Email)
	return resp.Token
}

func TestLogin(t *testing.T) {
	g := newAdminRouter(t)

	token := login(t, g, "  Cabinet@Example.FR ", testPassword)
	assert.NotEmpty(t, token)

	w := call(g, http.MethodPost, "/admin/login", "", `{"email":"cabinet@example.fr","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Identifiants invalides")

	w = call(g, http.MethodPost, "/admin/login", "", `{"email":"inconnu@example.fr","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Identifiants invalides")

	w = call(g, http.MethodPost, "/admin/login", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email et mot de passe requis")
}

func TestProfile(t *testing.T) {
	g := newAdminRouter(t)

	w := call(g, http.MethodGet, "/admin/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token manquant")

	token := login(t, g, testEmail, testPassword)
	w = call(g, http.MethodGet, "/admin/profile", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data admins.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testEmail, resp.Data.Email)
	assert.Equal(t, 1, resp.Data.LoginCount)
	assert.NotNil(t, resp.Data.LastLogin)
}

func TestChangePassword(t *testing.T) {
	g := newAdminRouter(t)
	token := login(t, g, testEmail, testPassword)

	w := call(g, http.MethodPatch, "/admin/profile/password", token, `{"currentPassword":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Mot de passe actuel et nouveau requis")

	w = call(g, http.MethodPatch, "/admin/profile/password", token, `{"currentPassword":"`+testPassword+`","newPassword":"court"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(g, http.MethodPatch, "/admin/profile/password", token, `{"currentPassword":"`+testPassword+`","newPassword":"`+strings.Repeat("x", 73)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ne doit pas dépasser 72 caractères")

	w = call(g, http.MethodPatch, "/admin/profile/password", token, `{"currentPassword":"faux-mot-de-passe","newPassword":"nouveau-mot-de-passe"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(g, http.MethodPatch, "/admin/profile/password", token, `{"currentPassword":"`+testPassword+`","newPassword":"nouveau-mot-de-passe"}`)
	require.Equal(t, http.StatusOK, w.Code)

	login(t, g, testEmail, "nouveau-mot-de-passe")
}

func TestLogoutRevokesToken(t *testing.T) {
	s, err := mr.Run()
	require.NoError(t, err)
	defer s.Close()
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: s.Addr()}))
	t.Cleanup(func() { sessions.SetBlacklistClient(nil) })

	g := newAdminRouter(t)
	token := login(t, g, testEmail, testPassword)

	w := call(g, http.MethodPost, "/admin/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = call(g, http.MethodGet, "/admin/profile", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token invalide")
}
