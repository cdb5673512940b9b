package admin

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"newsroom/cache"
	"newsroom/content"
	"newsroom/models"
)

const sessionKey = "editor_id"

type AdminModule struct {
	db    *gorm.DB
	store *content.Store
	cache *cache.Store
}

// NewAdminModule builds the editing API. pageCache may be nil when page
// caching is disabled.
func NewAdminModule(db *gorm.DB, store *content.Store, pageCache *cache.Store) *AdminModule {
	return &AdminModule{db: db, store: store, cache: pageCache}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/admin/login", a.login)
	router.POST("/admin/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("/panels/:type", a.panels)
		adminGroup.GET("/tags", a.listTags)

		adminGroup.GET("/categories", a.listCategories)
		adminGroup.POST("/categories", a.createCategory)
		adminGroup.GET("/categories/:id", a.getCategory)
		adminGroup.PUT("/categories/:id", a.updateCategory)
		adminGroup.DELETE("/categories/:id", a.deleteCategory)

		adminGroup.GET("/authors", a.listAuthors)
		adminGroup.POST("/authors", a.createAuthor)
		adminGroup.GET("/authors/:id", a.getAuthor)
		adminGroup.PUT("/authors/:id", a.updateAuthor)
		adminGroup.DELETE("/authors/:id", a.deleteAuthor)

		adminGroup.GET("/images", a.listImages)
		adminGroup.POST("/images", a.createImage)
		adminGroup.DELETE("/images/:id", a.deleteImage)

		adminGroup.POST("/pages", a.createPage)
		adminGroup.GET("/pages/:id", a.getPage)
		adminGroup.PUT("/pages/:id", a.updatePage)
		adminGroup.POST("/pages/:id/publish", a.publishPage)
		adminGroup.POST("/pages/:id/unpublish", a.unpublishPage)
		adminGroup.DELETE("/pages/:id", a.deletePage)
	}
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	editorID := session.Get(sessionKey)

	if editorID == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	c.Set(sessionKey, editorID)
	c.Next()
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AdminModule) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	var editor models.Editor
	if err := a.db.Where("email = ?", strings.TrimSpace(req.Email)).First(&editor).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if !checkPasswordHash(req.Password, editor.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKey, editor.ID)
	if err := session.Save(); err != nil {
		log.Printf("[Admin] save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": editor.ID, "email": editor.Email})
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Status(http.StatusNoContent)
}

func (a *AdminModule) panels(c *gin.Context) {
	panels, ok := models.PanelsFor(c.Param("type"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": c.Param("type"), "panels": panels})
}

func (a *AdminModule) listTags(c *gin.Context) {
	tags, err := a.store.ListTags()
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// invalidate drops cached page contexts after a content change.
func (a *AdminModule) invalidate() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Clear(); err != nil {
		log.Printf("[Admin] clear page cache: %v", err)
	}
}

// fail writes the JSON error response matching err.
func (a *AdminModule) fail(c *gin.Context, err error) {
	var invalid validator.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		fields := make(map[string]string, len(invalid))
		for _, fe := range invalid {
			fields[fe.Namespace()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, content.ErrSlugInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, content.ErrSubpageNotAllowed),
		errors.Is(err, content.ErrInvalidPageType),
		errors.Is(err, content.ErrArticleFieldsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[Admin] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// CreateEditor stores a new editor account with a bcrypt password hash.
func CreateEditor(db *gorm.DB, email, password string) (*models.Editor, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	editor := &models.Editor{Email: email, PasswordHash: passwordHash}
	if err := db.Create(editor).Error; err != nil {
		return nil, err
	}
	log.Printf("[Admin] created editor %d (%s)", editor.ID, editor.Email)
	return editor, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
