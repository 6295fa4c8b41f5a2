package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/pages"
	"github.com/sophro-cabinet/site-backend/internal/pages/service"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
)

// RegisterPublicRoutes mounts the page endpoint read by the site frontend.
func RegisterPublicRoutes(r gin.IRouter, svc service.Service) {
	r.GET("/pages/:pageId", func(c *gin.Context) {
		p, err := svc.Public(c.Request.Context(), c.Param("pageId"))
		if err != nil {
			if errors.Is(err, service.ErrUnknownPage) || errors.Is(err, service.ErrUnavailable) {
				_ = c.Error(middleware.NewHTTPError(http.StatusNotFound, "Page non trouvée"))
				return
			}
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
	})
}

// RegisterAdminRoutes mounts the page editor endpoints. The group is expected
// to be protected by middleware.AdminAuth.
func RegisterAdminRoutes(r gin.IRouter, svc service.Service) {
	r.GET("/pages", func(c *gin.Context) {
		list, created, err := svc.ListAdmin(c.Request.Context(), adminEmail(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":             true,
			"data":                list,
			"totalPages":          len(list),
			"missingPagesCreated": created,
		})
	})

	r.GET("/pages/:pageId", func(c *gin.Context) {
		include := c.Query("includeVersions") == "true"
		d, err := svc.GetAdmin(c.Request.Context(), c.Param("pageId"), include, adminEmail(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
	})

	r.PUT("/pages/:pageId", func(c *gin.Context) {
		var patch service.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			fail(c, &service.InvalidDataError{Details: []string{err.Error()}})
			return
		}
		d, err := svc.Update(c.Request.Context(), c.Param("pageId"), patch, c.Query("comment"), adminEmail(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d, "message": "Page mise à jour avec succès"})
	})

	r.GET("/pages/:pageId/versions", func(c *gin.Context) {
		p := pagination.Parse(c.Query("page"), c.Query("limit"))
		versions, current, meta, err := svc.ListVersions(c.Request.Context(), c.Param("pageId"), p)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"versions":       versions,
			"currentVersion": current,
			"pagination":     meta,
		}})
	})

	r.GET("/pages/:pageId/versions/:versionNumber", func(c *gin.Context) {
		n, ok := versionParam(c)
		if !ok {
			return
		}
		v, err := svc.GetVersion(c.Request.Context(), c.Param("pageId"), n)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": v})
	})

	r.POST("/pages/:pageId/versions/:versionNumber/restore", func(c *gin.Context) {
		n, ok := versionParam(c)
		if !ok {
			return
		}
		var body struct {
			Comment string `json:"comment"`
		}
		_ = c.ShouldBindJSON(&body)
		d, err := svc.RestoreVersion(c.Request.Context(), c.Param("pageId"), n, body.Comment, adminEmail(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"pageId":         d.PageID,
				"title":          d.Title,
				"currentVersion": d.CurrentVersion,
				"restoredFrom":   n,
				"stats":          d.Stats,
			},
			"message": "Version " + strconv.Itoa(n) + " restaurée avec succès",
		})
	})

	r.POST("/pages/:pageId/draft", func(c *gin.Context) {
		var in service.DraftInput
		if err := c.ShouldBindJSON(&in); err != nil {
			fail(c, &service.InvalidDataError{Details: []string{err.Error()}})
			return
		}
		d, err := svc.SaveDraft(c.Request.Context(), c.Param("pageId"), in, adminEmail(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Brouillon sauvegardé",
			"data":    gin.H{"savedAt": d.SavedAt, "hasDraft": true},
		})
	})

	r.POST("/pages/:pageId/draft/publish", func(c *gin.Context) {
		var body struct {
			Comment string `json:"comment"`
		}
		_ = c.ShouldBindJSON(&body)
		d, err := svc.PublishDraft(c.Request.Context(), c.Param("pageId"), body.Comment, adminEmail(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"pageId":         d.PageID,
				"title":          d.Title,
				"currentVersion": d.CurrentVersion,
				"stats":          d.Stats,
			},
			"message": "Brouillon publié avec succès",
		})
	})

	r.DELETE("/pages/:pageId/draft", func(c *gin.Context) {
		if err := svc.DiscardDraft(c.Request.Context(), c.Param("pageId")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Brouillon supprimé"})
	})

	r.PATCH("/pages/:pageId/sections/order", func(c *gin.Context) {
		var body struct {
			SectionIDs []string `json:"sectionIds"`
			Order      []string `json:"order"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, service.ErrInvalidOrder)
			return
		}
		ids := body.SectionIDs
		if ids == nil {
			ids = body.Order
		}
		d, err := svc.ReorderSections(c.Request.Context(), c.Param("pageId"), ids, adminEmail(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": d, "message": "Sections réorganisées"})
	})
}

func adminEmail(c *gin.Context) string {
	if a := middleware.CurrentAdmin(c); a != nil {
		return a.Email
	}
	return ""
}

func versionParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("versionNumber"))
	if err != nil || n < 1 {
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Numéro de version invalide"))
		return 0, false
	}
	return n, true
}

// fail translates page service errors into client errors for the admin routes.
func fail(c *gin.Context, err error) {
	var invalid *service.InvalidDataError
	switch {
	case errors.Is(err, service.ErrUnknownPage):
		err = &middleware.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "ID de page invalide",
			Extra:   gin.H{"validIds": pages.IDs()},
			Err:     err,
		}
	case errors.As(err, &invalid):
		err = &middleware.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "Données invalides",
			Extra:   gin.H{"details": invalid.Details},
			Err:     err,
		}
	case errors.Is(err, service.ErrNoDraft):
		err = &middleware.HTTPError{Status: http.StatusBadRequest, Message: "Aucun brouillon à publier", Err: err}
	case errors.Is(err, service.ErrInvalidOrder):
		err = &middleware.HTTPError{Status: http.StatusBadRequest, Message: "Ordre des sections invalide", Err: err}
	case errors.Is(err, models.ErrNotFound):
		msg := "Page non trouvée"
		if c.Param("versionNumber") != "" {
			msg = "Version non trouvée"
		}
		err = &middleware.HTTPError{Status: http.StatusNotFound, Message: msg, Err: err}
	}
	_ = c.Error(err)
}
