package media

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
)

const (
	MaxUploadSize = 10 << 20
	presignTTL    = 7 * 24 * time.Hour
)

// Store is the object storage used for uploads. *MinIOStorage implements it.
type Store interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// Handler serves admin image uploads. A nil store answers 503.
type Handler struct {
	store     Store
	publicURL string
}

func NewHandler(store Store, publicURL string) *Handler {
	return &Handler{store: store, publicURL: strings.TrimRight(publicURL, "/")}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/media", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if h.store == nil {
		_ = c.Error(middleware.NewHTTPError(http.StatusServiceUnavailable, "Stockage des médias non configuré"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Fichier manquant"))
		return
	}
	if fh.Size > MaxUploadSize {
		_ = c.Error(middleware.NewHTTPError(http.StatusRequestEntityTooLarge, "Fichier trop volumineux (10 Mo maximum)"))
		return
	}
	contentType := fh.Header.Get("Content-Type")
	ext, ok := extensions[contentType]
	if !ok {
		_ = c.Error(middleware.NewHTTPError(http.StatusUnsupportedMediaType, "Type de fichier non supporté"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	key := "pages/" + uuid.NewString() + ext
	if err := h.store.Upload(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
		metrics.MediaUploads.WithLabelValues("error").Inc()
		_ = c.Error(err)
		return
	}
	metrics.MediaUploads.WithLabelValues("success").Inc()

	url := h.publicURL + "/" + key
	if h.publicURL == "" {
		if url, err = h.store.PresignedURL(c.Request.Context(), key, presignTTL); err != nil {
			_ = c.Error(err)
			return
		}
	}
	logger.Infof("media %s uploaded (%d bytes)", key, fh.Size)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"key": key, "url": url}})
}
