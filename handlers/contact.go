package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/contact"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
)

type ContactHandler struct {
	svc *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// RegisterPublic mounts the contact form.
func (h *ContactHandler) RegisterPublic(rg gin.IRouter) {
	rg.POST("/contact", h.Create)
}

// RegisterAdmin mounts the inbox routes.
func (h *ContactHandler) RegisterAdmin(rg gin.IRouter) {
	rg.GET("/contact-messages", h.List)
	rg.PATCH("/contact-messages/:id/answered", h.MarkAnswered)
	rg.DELETE("/contact-messages/:id", h.Delete)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var in contact.Input
	_ = c.ShouldBindJSON(&in)
	msg, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Votre message a été envoyé avec succès ! Vous recevrez une réponse sous 24 - 48 heures.",
		"data":    gin.H{"id": msg.ID.Hex()},
	})
}

func (h *ContactHandler) List(c *gin.Context) {
	items, meta, err := h.svc.List(c.Request.Context(), pageParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"messages": items, "pagination": meta}})
}

func (h *ContactHandler) MarkAnswered(c *gin.Context) {
	msg, err := h.svc.MarkAnswered(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(notFound(err, "Message non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": msg})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(notFound(err, "Message non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message supprimé"})
}

func pageParams(c *gin.Context) pagination.Params {
	return pagination.Parse(c.Query("page"), c.Query("limit"))
}

// notFound gives models.ErrNotFound a resource specific message.
func notFound(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return &middleware.HTTPError{Status: http.StatusNotFound, Message: msg, Err: err}
	}
	return err
}
