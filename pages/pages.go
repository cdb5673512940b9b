package pages

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom/blocks"
	"newsroom/common"
	"newsroom/content"
	"newsroom/models"
)

type PagesModule struct {
	store    *content.Store
	renderer *blocks.Renderer
}

func NewPagesModule(store *content.Store, renderer *blocks.Renderer) *PagesModule {
	return &PagesModule{store: store, renderer: renderer}
}

func (p *PagesModule) RegisterRoutes(router gin.IRouter) {
	router.GET("/pages/*path", p.serve)
}

func (p *PagesModule) serve(c *gin.Context) {
	page, err := p.store.LivePageByPath(c.Param("path"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		log.Printf("[Pages] resolve %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	ctx, err := p.Context(page, c.Query("page"), c.Query("tag"))
	if err != nil {
		log.Printf("[Pages] context for page %d: %v", page.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	common.PageRenders.WithLabelValues(string(page.Type)).Inc()
	c.JSON(http.StatusOK, ctx)
}

// Context builds the render context of page. pageParam and tagParam are
// the raw "page" and "tag" query values.
func (p *PagesModule) Context(page *models.Page, pageParam, tagParam string) (gin.H, error) {
	ctx := gin.H{"page": page}

	switch page.Type {
	case models.PageTypeArticlesIndexPage:
		articles, err := p.paginateChildren(page, pageParam)
		if err != nil {
			return nil, err
		}
		ctx["articles"] = articles

	case models.PageTypeNewsIndexPage:
		news, err := p.paginateChildren(page, pageParam)
		if err != nil {
			return nil, err
		}
		ctx["news"] = news

	case models.PageTypeArticleTagIndex:
		articlePages, err := p.store.LiveArticlesTagged(tagParam)
		if err != nil {
			return nil, err
		}
		ctx["articlepages"] = articlePages

	case models.PageTypeArticlesPage:
		if err := p.articleContext(page, ctx); err != nil {
			return nil, err
		}
	}

	return ctx, nil
}

func (p *PagesModule) paginateChildren(page *models.Page, raw string) (*Page[models.Page], error) {
	count, err := p.store.CountLiveChildren(page.ID)
	if err != nil {
		return nil, err
	}
	paginator := Paginator{Count: count, PerPage: PerPage}
	number := paginator.Number(raw)
	offset, limit := paginator.Bounds(number)

	children, err := p.store.LiveChildren(page.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	return NewPage(paginator, number, children), nil
}

func (p *PagesModule) articleContext(page *models.Page, ctx gin.H) error {
	siblings, err := p.store.SiblingArticles(page)
	if err != nil {
		return err
	}
	related, err := p.store.RelatedArticles(page)
	if err != nil {
		return err
	}
	ctx["articles"] = siblings
	ctx["related"] = related

	body := []blocks.Rendered{}
	if page.Article != nil {
		images, err := p.store.ImagesByID(blocks.ImageIDs(page.Article.Body))
		if err != nil {
			return err
		}
		body = p.renderer.Render(page.Article.Body, images)
	}
	ctx["body"] = body
	return nil
}
