package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/sessions"
	"github.com/sophro-cabinet/site-backend/internal/tokens"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
)

const (
	ctxClaims = "claims"
	ctxAdmin  = "admin"
	ctxToken  = "token"
)

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(raw string) (*tokens.Claims, error)
}

// AdminLookup resolves the admin named by a token.
type AdminLookup interface {
	GetProfile(ctx context.Context, id string) (*models.Admin, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// AdminAuth verifies the bearer token, rejects revoked tokens and loads the admin.
func AdminAuth(ver Verifier, admins AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token manquant"})
			return
		}
		claims, err := ver.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token invalide"})
			return
		}
		revoked, err := sessions.IsRevoked(c.Request.Context(), raw)
		if err != nil {
			// Redis outage must not lock admins out
			logger.Warnf("blacklist check failed: %v", err)
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token invalide"})
			return
		}
		admin, err := admins.GetProfile(c.Request.Context(), claims.AdminID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidID) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Admin introuvable"})
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxAdmin, admin)
		c.Set(ctxToken, raw)
		c.Next()
	}
}

// CurrentAdmin returns the admin set by AdminAuth, or nil.
func CurrentAdmin(c *gin.Context) *models.Admin {
	if v, ok := c.Get(ctxAdmin); ok {
		if a, ok := v.(*models.Admin); ok {
			return a
		}
	}
	return nil
}

func CurrentClaims(c *gin.Context) *tokens.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if cl, ok := v.(*tokens.Claims); ok {
			return cl
		}
	}
	return nil
}

// rateKey prefers the authenticated admin so several admins behind one NAT
// do not share a bucket.
func rateKey(c *gin.Context) string {
	if cl := CurrentClaims(c); cl != nil && cl.AdminID != "" {
		return "admin:" + cl.AdminID
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// CurrentToken returns the raw bearer token accepted by AdminAuth.
func CurrentToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
