package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/testimonials"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
)

type TestimonialHandler struct {
	svc *testimonials.Service
}

func NewTestimonialHandler(svc *testimonials.Service) *TestimonialHandler {
	return &TestimonialHandler{svc: svc}
}

func (h *TestimonialHandler) RegisterPublic(rg gin.IRouter) {
	rg.GET("/temoignage", h.ListValidated)
	rg.POST("/temoignage", h.Create)
}

func (h *TestimonialHandler) RegisterAdmin(rg gin.IRouter) {
	rg.GET("/temoignages", h.List)
	rg.PATCH("/temoignages/:id/status", h.UpdateStatus)
	rg.DELETE("/temoignages/:id", h.Delete)
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	var in testimonials.Input
	_ = c.ShouldBindJSON(&in)
	t, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Merci pour votre témoignage ! Il sera publié après validation.",
		"data":    gin.H{"id": t.ID.Hex()},
	})
}

func (h *TestimonialHandler) ListValidated(c *gin.Context) {
	items, meta, err := h.svc.ListValidated(c.Request.Context(), pageParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"temoignages": items, "pagination": meta}})
}

func (h *TestimonialHandler) List(c *gin.Context) {
	items, meta, err := h.svc.List(c.Request.Context(), pageParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"temoignages": items, "pagination": meta}})
}

func (h *TestimonialHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status models.TestimonialStatus `json:"status"`
	}
	_ = c.ShouldBindJSON(&body)
	t, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if errors.Is(err, testimonials.ErrInvalidStatus) {
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Statut invalide"))
		return
	}
	if err != nil {
		_ = c.Error(notFound(err, "Témoignage non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": t})
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(notFound(err, "Témoignage non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Témoignage supprimé"})
}
