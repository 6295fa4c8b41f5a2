package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string][]byte
	err     error
}

func (f *fakeStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeStore) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://minio.local/sophro-media/" + key + "?X-Amz-Expires=604800", nil
}

func multipartBody(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func serve(t *testing.T, h *Handler, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.Use(middleware.ErrorHandler(false))
	h.Register(g.Group("/admin"))
	body, ct := multipartBody(t, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/admin/media", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestUpload_PublicURL(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}}
	before := testutil.ToFloat64(metrics.MediaUploads.WithLabelValues("success"))
	w := serve(t, NewHandler(store, "https://cdn.example.fr/media/"), "image/png", []byte("\x89PNG..."))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Key string `json:"key"`
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.Data.Key, "pages/"))
	require.True(t, strings.HasSuffix(resp.Data.Key, ".png"))
	require.Equal(t, "https://cdn.example.fr/media/"+resp.Data.Key, resp.Data.URL)
	require.Contains(t, store.objects, resp.Data.Key)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.MediaUploads.WithLabelValues("success")))
}

func TestUpload_PresignedWithoutPublicURL(t *testing.T) {
	w := serve(t, NewHandler(&fakeStore{objects: map[string][]byte{}}, ""), "image/jpeg", []byte("jpeg"))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "X-Amz-Expires")
}

func TestUpload_Rejections(t *testing.T) {
	w := serve(t, NewHandler(&fakeStore{objects: map[string][]byte{}}, ""), "application/pdf", []byte("%PDF"))
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = serve(t, NewHandler(nil, ""), "image/png", []byte("png"))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(t, NewHandler(&fakeStore{err: errors.New("bucket gone")}, ""), "image/png", []byte("png"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
