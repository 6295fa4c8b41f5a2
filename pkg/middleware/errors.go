package middleware

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/validation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// HTTPError carries a client-facing status and message. Extra fields are
// merged into the JSON body.
type HTTPError struct {
	Status  int
	Message string
	Extra   gin.H
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(status int, msg string) *HTTPError {
	return &HTTPError{Status: status, Message: msg}
}

var dupKeyField = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?:`)

// duplicateField extracts the offending field from an E11000 message.
func duplicateField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if m := dupKeyField.FindStringSubmatch(e.Message); m != nil {
				return m[1]
			}
		}
	}
	if m := dupKeyField.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return "valeur"
}

func unavailable(err error) bool {
	var sse topology.ServerSelectionError
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.As(err, &sse) ||
		errors.Is(err, context.DeadlineExceeded)
}

// classify maps an error to a status and JSON body.
func classify(err error, dev bool) (int, gin.H) {
	var verrs validation.Errors
	var herr *HTTPError
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, gin.H{"success": false, "errors": verrs}
	case errors.As(err, &herr):
		body := gin.H{"success": false, "error": herr.Message}
		for k, v := range herr.Extra {
			body[k] = v
		}
		return herr.Status, body
	case errors.Is(err, models.ErrInvalidID):
		return http.StatusBadRequest, gin.H{"success": false, "error": "ID invalide"}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, gin.H{"success": false, "error": "Ressource non trouvée"}
	case mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, gin.H{"success": false, "error": duplicateField(err) + " déjà existant"}
	case errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusUnauthorized, gin.H{"success": false, "error": "Token expiré"}
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return http.StatusUnauthorized, gin.H{"success": false, "error": "Token invalide"}
	case unavailable(err):
		return http.StatusServiceUnavailable, gin.H{"success": false, "error": "Service temporairement indisponible"}
	}
	body := gin.H{"success": false, "error": "Erreur serveur interne"}
	if dev {
		body["error"] = err.Error()
	}
	return http.StatusInternalServerError, body
}

// ErrorHandler renders the last error pushed with c.Error when the handler
// did not write a response itself. Internal details are only exposed when dev is true.
func ErrorHandler(dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, body := classify(err, dev)
		if status >= http.StatusInternalServerError {
			logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		} else {
			logger.Debugf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, body)
	}
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route " + c.Request.URL.Path + " non trouvée"})
}
