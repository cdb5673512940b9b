package content

import (
	"fmt"

	"gorm.io/gorm"

	"newsroom/models"
)

// newestFirst orders by first publication, latest first. The id breaks ties
// so equal timestamps still list in a stable order.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("pages.first_published_at DESC").Order("pages.id DESC")
}

func (s *Store) liveChildren(parentID uint) *gorm.DB {
	return s.db.Model(&models.Page{}).Where("pages.parent_id = ? AND pages.live = ?", parentID, true)
}

func (s *Store) CountLiveChildren(parentID uint) (int64, error) {
	var count int64
	if err := s.liveChildren(parentID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count children of page %d: %w", parentID, err)
	}
	return count, nil
}

// LiveChildren returns one window of the live children of a page, newest first.
func (s *Store) LiveChildren(parentID uint, offset, limit int) ([]models.Page, error) {
	var pages []models.Page
	err := newestFirst(withArticle(s.liveChildren(parentID))).
		Offset(offset).
		Limit(limit).
		Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("children of page %d: %w", parentID, err)
	}
	collectTags(pages)
	return pages, nil
}

func (s *Store) siblingArticles(page *models.Page) *gorm.DB {
	query := s.db.Model(&models.Page{}).
		Where("pages.type = ? AND pages.id <> ?", models.PageTypeArticlesPage, page.ID)
	if page.ParentID == nil {
		return query.Where("pages.parent_id IS NULL")
	}
	return query.Where("pages.parent_id = ?", *page.ParentID)
}

// SiblingArticles lists the other article pages under the same parent,
// newest first. Drafts are included.
func (s *Store) SiblingArticles(page *models.Page) ([]models.Page, error) {
	var pages []models.Page
	if err := newestFirst(withArticle(s.siblingArticles(page))).Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("siblings of page %d: %w", page.ID, err)
	}
	collectTags(pages)
	return pages, nil
}

// RelatedArticles lists sibling articles that share at least one tag with
// page. Each article appears once however many tags it shares.
func (s *Store) RelatedArticles(page *models.Page) ([]models.Page, error) {
	ownTags := s.db.Model(&models.ArticlePageTag{}).
		Select("tag_id").
		Where("content_object_id = ?", page.ID)
	tagged := s.db.Model(&models.ArticlePageTag{}).
		Select("content_object_id").
		Where("tag_id IN (?)", ownTags)

	var pages []models.Page
	err := newestFirst(withArticle(s.siblingArticles(page))).
		Where("pages.id IN (?)", tagged).
		Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("related to page %d: %w", page.ID, err)
	}
	collectTags(pages)
	return pages, nil
}

// LiveArticlesTagged lists live article pages carrying the tag with the
// given slug, newest first. An empty slug matches nothing.
func (s *Store) LiveArticlesTagged(slug string) ([]models.Page, error) {
	pages := []models.Page{}
	if slug == "" {
		return pages, nil
	}

	tagged := s.db.Table("article_page_tags").
		Select("article_page_tags.content_object_id").
		Joins("JOIN tags ON tags.id = article_page_tags.tag_id").
		Where("tags.slug = ?", slug)

	err := newestFirst(withArticle(s.db.Model(&models.Page{}))).
		Where("pages.type = ? AND pages.live = ?", models.PageTypeArticlesPage, true).
		Where("pages.id IN (?)", tagged).
		Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("articles tagged %q: %w", slug, err)
	}
	collectTags(pages)
	return pages, nil
}

// LivePages lists every live page in tree order.
func (s *Store) LivePages() ([]models.Page, error) {
	var pages []models.Page
	if err := s.db.Where("live = ?", true).Order("url_path").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("live pages: %w", err)
	}
	return pages, nil
}
