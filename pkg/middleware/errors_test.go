package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/validation"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func serveErr(t *testing.T, err error, dev bool) (int, map[string]interface{}) {
	t.Helper()
	g := gin.New()
	g.Use(ErrorHandler(dev))
	g.GET("/", func(c *gin.Context) { _ = c.Error(err) })
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	return w.Code, body
}

func TestErrorHandler_Mapping(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: sophro.admins index: email_1 dup key: { email: "a@b.fr" }`,
	}}}
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid id", fmt.Errorf("load: %w", models.ErrInvalidID), 400, "ID invalide"},
		{"not found", models.ErrNotFound, 404, "Ressource non trouvée"},
		{"duplicate", dup, 400, "email déjà existant"},
		{"expired", fmt.Errorf("parse: %w", jwt.ErrTokenExpired), 401, "Token expiré"},
		{"malformed", jwt.ErrTokenMalformed, 401, "Token invalide"},
		{"mongo down", mongo.ErrClientDisconnected, 503, "Service temporairement indisponible"},
		{"http error", NewHTTPError(409, "Conflit"), 409, "Conflit"},
		{"unknown", errors.New("boom"), 500, "Erreur serveur interne"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := serveErr(t, tc.err, false)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestErrorHandler_DevExposesMessage(t *testing.T) {
	status, body := serveErr(t, errors.New("boom"), true)
	require.Equal(t, 500, status)
	require.Equal(t, "boom", body["error"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	status, body := serveErr(t, validation.Errors{"email": "Veuillez entrer un email valide."}, false)
	require.Equal(t, 400, status)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Veuillez entrer un email valide.", errs["email"])
}

func TestErrorHandler_ExtraFields(t *testing.T) {
	e := &HTTPError{Status: 400, Message: "ID de page invalide", Extra: gin.H{"validIds": []string{"home"}}}
	_, body := serveErr(t, e, false)
	require.Equal(t, []interface{}{"home"}, body["validIds"])
}

func TestNotFound(t *testing.T) {
	g := gin.New()
	g.NoRoute(NotFound)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "/nowhere")
}

func TestCORS(t *testing.T) {
	g := gin.New()
	g.Use(CORS([]string{"https://site.example.fr"}), SecurityHeaders())
	g.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://site.example.fr")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://site.example.fr", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
