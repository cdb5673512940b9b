package site

import (
	"html"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"newsroom/content"
)

type SiteModule struct {
	store  *content.Store
	domain string
}

func NewSiteModule(store *content.Store, domain string) *SiteModule {
	return &SiteModule{store: store, domain: strings.TrimSuffix(domain, "/")}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/sitemap.xml", s.sitemap)
}

func (s *SiteModule) sitemap(c *gin.Context) {
	pages, err := s.store.LivePages()
	if err != nil {
		log.Printf("[Site] sitemap: %v", err)
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	for _, page := range pages {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + html.EscapeString(s.domain+"/pages"+page.URLPath) + "</loc>\n")
		if page.LastPublishedAt != nil {
			sitemap.WriteString("    <lastmod>" + page.LastPublishedAt.UTC().Format(time.RFC3339) + "</lastmod>\n")
		}
		sitemap.WriteString("  </url>\n")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}
