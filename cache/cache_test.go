package cache

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWrite(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "pages"), time.Minute)

	_, found := s.Read("/pages/news/?")
	assert.False(t, found)

	require.NoError(t, s.Write("/pages/news/?", []byte(`{"ok":true}`)))
	body, found := s.Read("/pages/news/?")
	assert.True(t, found)
	assert.Equal(t, `{"ok":true}`, string(body))

	_, found = s.Read("/pages/news/?page=2")
	assert.False(t, found)

	require.NoError(t, s.Remove("/pages/news/?"))
	require.NoError(t, s.Remove("/pages/news/?"))
	_, found = s.Read("/pages/news/?")
	assert.False(t, found)
}

func TestStore_PathIsStable(t *testing.T) {
	s := NewStore("cache", time.Minute)
	assert.Equal(t, s.Path("/pages/a/?"), s.Path("/pages/a/?"))
	assert.NotEqual(t, s.Path("/pages/a/?"), s.Path("/pages/a/?page=2"))
	assert.Equal(t, ".json", filepath.Ext(s.Path("x")))
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(t.TempDir(), time.Minute)
	require.NoError(t, s.Write("old", []byte("old")))
	require.NoError(t, s.Write("fresh", []byte("fresh")))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(s.Path("old"), past, past))

	_, found := s.Read("old")
	assert.False(t, found)

	require.NoError(t, s.ClearExpired())
	_, err := os.Stat(s.Path("old"))
	assert.True(t, os.IsNotExist(err))
	_, found = s.Read("fresh")
	assert.True(t, found)
}

func TestStore_Clear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	s := NewStore(dir, time.Minute)
	require.NoError(t, s.Write("a", []byte("a")))

	require.NoError(t, s.Clear())
	_, found := s.Read("a")
	assert.False(t, found)

	require.NoError(t, s.ClearExpired())
	require.NoError(t, s.Write("b", []byte("b")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewStore(t.TempDir(), time.Minute)

	calls := 0
	router := gin.New()
	group := router.Group("/", s.Middleware())
	group.GET("/pages/*path", func(c *gin.Context) {
		calls++
		if c.Param("path") == "/missing/" {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": c.Param("path"), "page": c.Query("page")})
	})
	group.GET("/sitemap.xml", func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, "<urlset/>")
	})

	get := func(path string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := get("/pages/news/?page=2")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get("/pages/news/?page=2")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	other := get("/pages/news/?page=3")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	get("/pages/missing/")
	missing := get("/pages/missing/")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "MISS", missing.Header().Get("X-Cache"))
	assert.Equal(t, 4, calls)

	get("/sitemap.xml")
	sitemap := get("/sitemap.xml")
	assert.Empty(t, sitemap.Header().Get("X-Cache"))
	assert.Equal(t, 6, calls)

	require.NoError(t, s.Clear())
	assert.Equal(t, "MISS", get("/pages/news/?page=2").Header().Get("X-Cache"))
	assert.Equal(t, 7, calls)
}

func TestMiddleware_UnwritableCacheStillServes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0644))
	s := NewStore(blocked, time.Minute)

	router := gin.New()
	router.Group("/", s.Middleware()).GET("/pages/*path", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"path": c.Param("path")})
	})

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/pages/news/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.JSONEq(t, `{"path":"/news/"}`, w.Body.String())
	}
}
