package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/appointments"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
)

type AppointmentHandler struct {
	svc *appointments.Service
}

func NewAppointmentHandler(svc *appointments.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) RegisterPublic(rg gin.IRouter) {
	rg.POST("/rdv", h.Create)
}

func (h *AppointmentHandler) RegisterAdmin(rg gin.IRouter) {
	rg.GET("/rdv", h.List)
	rg.PATCH("/rdv/:id/status", h.UpdateStatus)
	rg.DELETE("/rdv/:id", h.Delete)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var in appointments.Input
	_ = c.ShouldBindJSON(&in)
	a, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Rendez-vous enregistré avec succès", "data": a})
}

func (h *AppointmentHandler) List(c *gin.Context) {
	status := models.AppointmentStatus(c.Query("status"))
	items, meta, err := h.svc.List(c.Request.Context(), status, pageParams(c))
	if errors.Is(err, appointments.ErrInvalidStatus) {
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Statut invalide"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"rdvs": items, "pagination": meta}})
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status models.AppointmentStatus `json:"status"`
	}
	_ = c.ShouldBindJSON(&body)
	a, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if errors.Is(err, appointments.ErrInvalidStatus) {
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Statut invalide"))
		return
	}
	if err != nil {
		_ = c.Error(notFound(err, "Rendez-vous non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(notFound(err, "Rendez-vous non trouvé"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rendez-vous supprimé"})
}
