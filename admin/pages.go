package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsroom/content"
	"newsroom/models"
)

const dateLayout = "2006-01-02"

type pageRequest struct {
	ParentID *uint           `json:"parent_id"`
	Type     models.PageType `json:"type"`
	Title    string          `json:"title"`
	Slug     string          `json:"slug"`
	Article  *articleRequest `json:"article"`
}

type articleRequest struct {
	Date         string         `json:"date"`
	PublishedAt  *time.Time     `json:"published_at"`
	CoverImageID *uint          `json:"cover_image_id"`
	Intro        string         `json:"intro"`
	Body         []models.Block `json:"body"`
	AuthorIDs    []uint         `json:"author_ids"`
	CategoryIDs  []uint         `json:"category_ids"`
	Tags         string         `json:"tags"`
}

func (r *articleRequest) fields() (*content.ArticleFields, error) {
	if r == nil {
		return nil, nil
	}
	fields := &content.ArticleFields{
		PublishedAt:  r.PublishedAt,
		CoverImageID: r.CoverImageID,
		Intro:        r.Intro,
		Body:         r.Body,
		AuthorIDs:    r.AuthorIDs,
		CategoryIDs:  r.CategoryIDs,
		Tags:         content.ParseTagNames(r.Tags),
	}
	if r.Date != "" {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("date must look like %s", dateLayout)
		}
		fields.Date = date
	}
	return fields, nil
}

func (a *AdminModule) getPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	page, err := a.store.GetPage(id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (a *AdminModule) createPage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fields, err := req.Article.fields()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := &models.Page{Type: req.Type, Title: req.Title, Slug: req.Slug}
	if err := a.store.CreatePage(req.ParentID, page, fields); err != nil {
		a.fail(c, err)
		return
	}

	a.invalidate()

	created, err := a.store.GetPage(page.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *AdminModule) updatePage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	fields, err := req.Article.fields()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := a.store.UpdatePage(id, req.Title, req.Slug, fields)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(http.StatusOK, page)
}

func (a *AdminModule) publishPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	page, err := a.store.PublishPage(id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(http.StatusOK, page)
}

func (a *AdminModule) unpublishPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	page, err := a.store.UnpublishPage(id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(http.StatusOK, page)
}

func (a *AdminModule) deletePage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	deleted, err := a.store.DeletePage(id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.invalidate()
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
