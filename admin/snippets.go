package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/models"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type authorRequest struct {
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	TwitchName string `json:"twitch_name"`
	Email      string `json:"email"`
	AvatarID   *uint  `json:"avatar_id"`
}

func (r authorRequest) author(id uint) *models.ArticleAuthor {
	return &models.ArticleAuthor{
		ID:         id,
		Name:       r.Name,
		Bio:        r.Bio,
		TwitchName: r.TwitchName,
		Email:      r.Email,
		AvatarID:   r.AvatarID,
	}
}

type imageRequest struct {
	Title   string `json:"title"`
	FileKey string `json:"file_key"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (a *AdminModule) listCategories(c *gin.Context) {
	categories, err := a.store.ListCategories()
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (a *AdminModule) getCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	category, err := a.store.GetCategory(id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (a *AdminModule) createCategory(c *gin.Context) {
	a.saveCategory(c, 0, http.StatusCreated)
}

func (a *AdminModule) updateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a.saveCategory(c, id, http.StatusOK)
}

func (a *AdminModule) saveCategory(c *gin.Context, id uint, status int) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	category := &models.ArticleCategory{ID: id, Name: req.Name}
	if err := a.store.SaveCategory(category); err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(status, category)
}

func (a *AdminModule) deleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := a.store.DeleteCategory(id); err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.Status(http.StatusNoContent)
}

func (a *AdminModule) listAuthors(c *gin.Context) {
	authors, err := a.store.ListAuthors()
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (a *AdminModule) getAuthor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	author, err := a.store.GetAuthor(id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (a *AdminModule) createAuthor(c *gin.Context) {
	a.saveAuthor(c, 0, http.StatusCreated)
}

func (a *AdminModule) updateAuthor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a.saveAuthor(c, id, http.StatusOK)
}

func (a *AdminModule) saveAuthor(c *gin.Context, id uint, status int) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	author := req.author(id)
	if err := a.store.SaveAuthor(author); err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(status, author)
}

func (a *AdminModule) deleteAuthor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := a.store.DeleteAuthor(id); err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.Status(http.StatusNoContent)
}

func (a *AdminModule) listImages(c *gin.Context) {
	images, err := a.store.ListImages()
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (a *AdminModule) createImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	image := &models.Image{
		Title:   req.Title,
		FileKey: req.FileKey,
		Width:   req.Width,
		Height:  req.Height,
	}
	if err := a.store.CreateImage(image); err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(http.StatusCreated, image)
}

func (a *AdminModule) deleteImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := a.store.DeleteImage(id); err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.Status(http.StatusNoContent)
}
