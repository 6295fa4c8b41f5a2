package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sophro-cabinet/site-backend/internal/pages/service"
	"github.com/sophro-cabinet/site-backend/pkg/middleware"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	ValidIDs []string        `json:"validIds"`
	Details  []string        `json:"details"`
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(middleware.ErrorHandler(false))
	svc := service.NewMemoryService()
	RegisterPublicRoutes(g, svc)
	RegisterAdminRoutes(g.Group("/admin"), svc)
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

type pageView struct {
	PageID         string `json:"pageId"`
	Title          string `json:"title"`
	CurrentVersion int    `json:"currentVersion"`
	Sections       []struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Order int    `json:"order"`
	} `json:"sections"`
}

func TestPublicPage(t *testing.T) {
	g := newRouter()

	code, env := do(t, g, http.MethodGet, "/pages/home", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)
	var p pageView
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "home", p.PageID)
	require.NotEmpty(t, p.Sections)

	code, env = do(t, g, http.MethodGet, "/pages/blog", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Page non trouvée", env.Error)
}

func TestPublicPage_ArchivedIsHidden(t *testing.T) {
	g := newRouter()
	code, _ := do(t, g, http.MethodPut, "/admin/pages/ethics", `{"status":"archived"}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, g, http.MethodGet, "/pages/ethics", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestAdminList(t *testing.T) {
	g := newRouter()
	code, env := do(t, g, http.MethodGet, "/admin/pages", "")
	require.Equal(t, http.StatusOK, code)
	var list []struct {
		PageID      string `json:"pageId"`
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 7)
	for _, p := range list {
		require.NotEmpty(t, p.DisplayName)
	}
}

func TestAdminGet_InvalidID(t *testing.T) {
	g := newRouter()
	code, env := do(t, g, http.MethodGet, "/admin/pages/blog", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "ID de page invalide", env.Error)
	require.Contains(t, env.ValidIDs, "home")
}

func TestAdminUpdateAndVersions(t *testing.T) {
	g := newRouter()

	code, env := do(t, g, http.MethodPut, "/admin/pages/about?comment=bio", `{"title":"Qui suis-je vraiment ?"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Page mise à jour avec succès", env.Message)
	var p pageView
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, 2, p.CurrentVersion)

	code, env = do(t, g, http.MethodGet, "/admin/pages/about/versions?limit=1", "")
	require.Equal(t, http.StatusOK, code)
	var vl struct {
		Versions []struct {
			VersionNumber int    `json:"versionNumber"`
			Comment       string `json:"comment"`
		} `json:"versions"`
		CurrentVersion int `json:"currentVersion"`
		Pagination     struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &vl))
	require.Equal(t, 2, vl.CurrentVersion)
	require.Equal(t, 2, vl.Pagination.Total)
	require.Len(t, vl.Versions, 1)
	require.Equal(t, "bio", vl.Versions[0].Comment)

	code, env = do(t, g, http.MethodGet, "/admin/pages/about/versions?page=100000000000000000&limit=100", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &vl))
	require.Empty(t, vl.Versions)
	require.Equal(t, 2, vl.Pagination.Total)

	code, _ = do(t, g, http.MethodGet, "/admin/pages/about/versions/1", "")
	require.Equal(t, http.StatusOK, code)
	code, env = do(t, g, http.MethodGet, "/admin/pages/about/versions/9", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Version non trouvée", env.Error)
	code, _ = do(t, g, http.MethodGet, "/admin/pages/about/versions/abc", "")
	require.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, g, http.MethodPost, "/admin/pages/about/versions/1/restore", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Version 1 restaurée avec succès", env.Message)
	var rs struct {
		CurrentVersion int `json:"currentVersion"`
		RestoredFrom   int `json:"restoredFrom"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rs))
	require.Equal(t, 3, rs.CurrentVersion)
	require.Equal(t, 1, rs.RestoredFrom)
}

func TestAdminUpdate_InvalidSections(t *testing.T) {
	g := newRouter()
	code, env := do(t, g, http.MethodPut, "/admin/pages/home", `{"sections":[{"id":"x","type":"carousel"}]}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Données invalides", env.Error)
	require.NotEmpty(t, env.Details)
}

func TestDraftLifecycle(t *testing.T) {
	g := newRouter()

	code, env := do(t, g, http.MethodPost, "/admin/pages/pricing/draft/publish", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Page non trouvée", env.Error)

	code, _ = do(t, g, http.MethodGet, "/admin/pages/pricing", "")
	require.Equal(t, http.StatusOK, code)
	code, env = do(t, g, http.MethodPost, "/admin/pages/pricing/draft/publish", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Aucun brouillon à publier", env.Error)

	code, env = do(t, g, http.MethodPost, "/admin/pages/pricing/draft", `{"title":"Tarifs 2026"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Brouillon sauvegardé", env.Message)

	code, env = do(t, g, http.MethodPost, "/admin/pages/pricing/draft/publish", `{"comment":"rentrée"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Brouillon publié avec succès", env.Message)
	var p pageView
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "Tarifs 2026", p.Title)

	code, _ = do(t, g, http.MethodDelete, "/admin/pages/pricing/draft", "")
	require.Equal(t, http.StatusBadRequest, code)
}

func TestReorderSections(t *testing.T) {
	g := newRouter()
	code, env := do(t, g, http.MethodGet, "/admin/pages/home", "")
	require.Equal(t, http.StatusOK, code)
	var p pageView
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.GreaterOrEqual(t, len(p.Sections), 2)

	ids := make([]string, 0, len(p.Sections))
	for i := len(p.Sections) - 1; i >= 0; i-- {
		ids = append(ids, p.Sections[i].ID)
	}
	body, _ := json.Marshal(gin.H{"sectionIds": ids})
	code, env = do(t, g, http.MethodPatch, "/admin/pages/home/sections/order", string(body))
	require.Equal(t, http.StatusOK, code)
	var after pageView
	require.NoError(t, json.Unmarshal(env.Data, &after))
	require.Equal(t, ids[0], after.Sections[0].ID)
	require.Equal(t, p.CurrentVersion+1, after.CurrentVersion)

	code, env = do(t, g, http.MethodPatch, "/admin/pages/home/sections/order", `{"sectionIds":["nope"]}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Ordre des sections invalide", env.Error)
}
