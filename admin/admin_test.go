package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"newsroom/cache"
	"newsroom/content"
	"newsroom/database"
	"newsroom/models"
)

const (
	testEmail    = "editor@example.com"
	testPassword = "correct horse"
)

type testEnv struct {
	db      *gorm.DB
	store   *content.Store
	cache   *cache.Store
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func setupTestRouter(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenMemory()
	require.NoError(t, err)

	env := &testEnv{
		db:      db,
		store:   content.NewStore(db),
		cache:   cache.NewStore(t.TempDir(), time.Minute),
		router:  gin.New(),
		cookies: map[string]*http.Cookie{},
	}
	env.router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	NewAdminModule(db, env.store, env.cache).RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		e.cookies[c.Name] = c
	}
	return w
}

func (e *testEnv) login(t *testing.T) {
	_, err := CreateEditor(e.db, testEmail, testPassword)
	require.NoError(t, err)
	w := e.do(t, http.MethodPost, "/admin/login", gin.H{"email": testEmail, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestCreateEditor(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	editor, err := CreateEditor(db, " editor@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", editor.Email)
	assert.NotEqual(t, "secret", editor.PasswordHash)
	assert.True(t, checkPasswordHash("secret", editor.PasswordHash))
	assert.False(t, checkPasswordHash("wrong", editor.PasswordHash))

	_, err = CreateEditor(db, "editor@example.com", "other")
	assert.Error(t, err)

	_, err = CreateEditor(db, "", "secret")
	assert.Error(t, err)
	_, err = CreateEditor(db, "someone@example.com", "")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword("pw")
	require.NoError(t, err)
	other, err := hashPassword("pw")
	require.NoError(t, err)

	assert.NotEqual(t, hash, other)
	assert.True(t, checkPasswordHash("pw", hash))
	assert.True(t, checkPasswordHash("pw", other))
}

func TestCategoryLifecycle(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/admin/categories", gin.H{"name": "Engineering"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category models.ArticleCategory
	decode(t, w, &category)
	assert.NotZero(t, category.ID)

	path := "/admin/categories/" + itoa(category.ID)
	w = env.do(t, http.MethodPut, path, gin.H{"name": "Platform"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &category)
	assert.Equal(t, "Platform", category.Name)

	w = env.do(t, http.MethodGet, "/admin/categories", nil)
	var categories []models.ArticleCategory
	decode(t, w, &categories)
	assert.Len(t, categories, 1)

	w = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/admin/categories/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategory_ValidationErrors(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/admin/categories", gin.H{"name": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, "required", resp.Fields["ArticleCategory.Name"])
}

func TestAuthorsAndImages(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/admin/images", gin.H{"title": "Portrait", "width": 200, "height": 200})
	require.Equal(t, http.StatusCreated, w.Code)
	var image models.Image
	decode(t, w, &image)
	assert.NotEmpty(t, image.FileKey)

	w = env.do(t, http.MethodPost, "/admin/authors", gin.H{"name": "Ada", "avatar_id": image.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var author models.ArticleAuthor
	decode(t, w, &author)

	w = env.do(t, http.MethodPost, "/admin/authors", gin.H{"name": "Ghost", "avatar_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/admin/images/"+itoa(image.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/admin/authors/"+itoa(author.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &author)
	assert.Nil(t, author.AvatarID)

	w = env.do(t, http.MethodGet, "/admin/images", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var images []models.Image
	decode(t, w, &images)
	assert.Empty(t, images)
}

func TestPagesAPI(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/admin/pages", gin.H{"type": "articles_index_page", "title": "Articles"})
	require.Equal(t, http.StatusCreated, w.Code)
	var index models.Page
	decode(t, w, &index)
	assert.Equal(t, "/articles/", index.URLPath)

	w = env.do(t, http.MethodPost, "/admin/pages", gin.H{"type": "page", "title": "About", "parent_id": index.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/admin/pages", gin.H{"type": "articles_page", "title": "No fields", "parent_id": index.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	article := gin.H{
		"type":      "articles_page",
		"title":     "Launch day",
		"parent_id": index.ID,
		"article": gin.H{
			"date":  "2024-03-01",
			"intro": "We launched.",
			"tags":  "launch, Release Notes",
			"body": []gin.H{
				{"type": "heading", "value": "Hello"},
				{"type": "paragraph", "value": "It *works*."},
			},
		},
	}
	w = env.do(t, http.MethodPost, "/admin/pages", article)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Page
	decode(t, w, &created)
	assert.Equal(t, "/articles/launch-day/", created.URLPath)
	assert.False(t, created.Live)
	require.NotNil(t, created.Article)
	assert.Len(t, created.Article.Tags, 2)
	assert.Len(t, created.Article.Body, 2)

	w = env.do(t, http.MethodPost, "/admin/pages", article)
	assert.Equal(t, http.StatusConflict, w.Code)

	article["title"] = "Bad date"
	article["article"].(gin.H)["date"] = "01/03/2024"
	w = env.do(t, http.MethodPost, "/admin/pages", article)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := "/admin/pages/" + itoa(created.ID)
	w = env.do(t, http.MethodPost, path+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var published models.Page
	decode(t, w, &published)
	assert.True(t, published.Live)
	assert.NotNil(t, published.FirstPublishedAt)

	w = env.do(t, http.MethodPut, path, gin.H{"title": "Launch week", "slug": "launch-week"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Page
	decode(t, w, &updated)
	assert.Equal(t, "/articles/launch-week/", updated.URLPath)

	w = env.do(t, http.MethodPost, path+"/unpublish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.False(t, updated.Live)

	w = env.do(t, http.MethodGet, "/admin/tags", nil)
	var tags []models.Tag
	decode(t, w, &tags)
	assert.Len(t, tags, 2)

	w = env.do(t, http.MethodDelete, "/admin/pages/"+itoa(index.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": 2}`, w.Body.String())

	w = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentChangeClearsPageCache(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/admin/pages", gin.H{"type": "news_index_page", "title": "News"})
	require.Equal(t, http.StatusCreated, w.Code)
	var index models.Page
	decode(t, w, &index)

	require.NoError(t, env.cache.Write("/pages/news/?", []byte("{}")))
	_, found := env.cache.Read("/pages/news/?")
	require.True(t, found)

	w = env.do(t, http.MethodPost, "/admin/pages/"+itoa(index.ID)+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, found = env.cache.Read("/pages/news/?")
	assert.False(t, found)
}

func TestCreateClearsPageCache(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/admin/pages", gin.H{"type": "news_index_page", "title": "News"})
	require.Equal(t, http.StatusCreated, w.Code)
	var index models.Page
	decode(t, w, &index)

	require.NoError(t, env.cache.Write("/pages/news/story/?", []byte("{}")))
	draft := gin.H{
		"type":      "articles_page",
		"title":     "Draft sibling",
		"parent_id": index.ID,
		"article": gin.H{
			"date":  "2024-03-01",
			"intro": "Not live yet.",
			"body":  []gin.H{{"type": "paragraph", "value": "Soon."}},
		},
	}
	w = env.do(t, http.MethodPost, "/admin/pages", draft)
	require.Equal(t, http.StatusCreated, w.Code)
	_, found := env.cache.Read("/pages/news/story/?")
	assert.False(t, found)

	require.NoError(t, env.cache.Write("/pages/news/story/?", []byte("{}")))
	w = env.do(t, http.MethodPost, "/admin/images", gin.H{"title": "Cover"})
	require.Equal(t, http.StatusCreated, w.Code)
	_, found = env.cache.Read("/pages/news/story/?")
	assert.False(t, found)
}

func TestPanels(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t)

	w := env.do(t, http.MethodGet, "/admin/panels/articles_page", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Panels []models.Panel `json:"panels"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Panels, 6)
	assert.Equal(t, "Article information", resp.Panels[1].Heading)
	assert.Equal(t, []string{"authors", "date", "tags", "categories"}, resp.Panels[1].Fields)

	w = env.do(t, http.MethodGet, "/admin/panels/blog_post", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
