package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/admins"
	"github.com/sophro-cabinet/site-backend/internal/sessions"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
)

// LoginRequest is the admin panel login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	admins *admins.Service
}

func NewAuthHandler(a *admins.Service) *AuthHandler {
	return &AuthHandler{admins: a}
}

// RegisterLogin mounts the unauthenticated login route.
func (h *AuthHandler) RegisterLogin(rg gin.IRouter) {
	rg.POST("/login", h.Login)
}

// Register mounts the routes that require an authenticated admin.
func (h *AuthHandler) Register(rg gin.IRouter) {
	rg.POST("/logout", h.Logout)
	rg.GET("/profile", h.Profile)
	rg.PATCH("/profile/password", h.ChangePassword)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	_ = c.ShouldBindJSON(&req)
	sess, err := h.admins.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, admins.ErrMissingFields):
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Email et mot de passe requis"))
		return
	case errors.Is(err, admins.ErrInvalidCredentials):
		_ = c.Error(middleware.NewHTTPError(http.StatusUnauthorized, "Identifiants invalides"))
		return
	case err != nil:
		_ = c.Error(err)
		return
	}
	logger.Infof("admin %s logged in", sess.Admin.ID.Hex())
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"admin":     gin.H{"id": sess.Admin.ID.Hex(), "email": sess.Admin.Email},
	})
}

// Logout revokes the presented access token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	exp := time.Now()
	if cl := middleware.CurrentClaims(c); cl != nil && cl.ExpiresAt != nil {
		exp = cl.ExpiresAt.Time
	}
	if err := sessions.RevokeToken(c.Request.Context(), middleware.CurrentToken(c), exp); err != nil {
		logger.Warnf("failed to revoke token: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Déconnexion réussie"})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	a := middleware.CurrentAdmin(c)
	if a == nil {
		_ = c.Error(middleware.NewHTTPError(http.StatusNotFound, "Admin non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": admins.ToProfile(a)})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req PasswordRequest
	_ = c.ShouldBindJSON(&req)
	a := middleware.CurrentAdmin(c)
	if a == nil {
		_ = c.Error(middleware.NewHTTPError(http.StatusNotFound, "Admin non trouvé"))
		return
	}
	err := h.admins.ChangePassword(c.Request.Context(), a.ID.Hex(), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, admins.ErrMissingFields):
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Mot de passe actuel et nouveau requis"))
	case errors.Is(err, admins.ErrPasswordTooShort):
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Le nouveau mot de passe doit contenir au moins 8 caractères"))
	case errors.Is(err, admins.ErrPasswordTooLong):
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Le nouveau mot de passe ne doit pas dépasser 72 caractères"))
	case errors.Is(err, admins.ErrWrongPassword):
		_ = c.Error(middleware.NewHTTPError(http.StatusUnauthorized, "Mot de passe actuel incorrect"))
	case err != nil:
		_ = c.Error(err)
	default:
		logger.Infof("admin %s changed password", a.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Mot de passe modifié avec succès"})
	}
}
