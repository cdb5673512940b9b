package content

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newsroom/common"
	"newsroom/models"
)

// ArticleFields are the editable columns and relations of an article page.
type ArticleFields struct {
	Date         time.Time
	PublishedAt  *time.Time
	CoverImageID *uint
	Intro        string
	Body         []models.Block
	AuthorIDs    []uint
	CategoryIDs  []uint
	Tags         []string
}

func (f *ArticleFields) row(pageID uint) *models.ArticlesPage {
	body := make([]models.Block, len(f.Body))
	copy(body, f.Body)
	for i := range body {
		if body[i].ID == "" {
			body[i].ID = uuid.NewString()
		}
	}
	return &models.ArticlesPage{
		PageID:       pageID,
		Date:         f.Date,
		PublishedAt:  f.PublishedAt,
		CoverImageID: f.CoverImageID,
		Intro:        f.Intro,
		Body:         body,
	}
}

func withArticle(db *gorm.DB) *gorm.DB {
	return db.Preload("Article").
		Preload("Article.CoverImage").
		Preload("Article.Authors").
		Preload("Article.Categories").
		Preload("Article.TaggedItems.Tag")
}

func collectTags(pages []models.Page) {
	for i := range pages {
		if pages[i].Article != nil {
			pages[i].Article.CollectTags()
		}
	}
}

func (s *Store) GetPage(id uint) (*models.Page, error) {
	var page models.Page
	if err := withArticle(s.db).First(&page, id).Error; err != nil {
		return nil, notFound(err, "page", id)
	}
	if page.Article != nil {
		page.Article.CollectTags()
	}
	return &page, nil
}

// LivePageByPath resolves a request path such as "/news/launch" to the live
// page stored under "/news/launch/".
func (s *Store) LivePageByPath(path string) (*models.Page, error) {
	urlPath := "/" + strings.Trim(path, "/") + "/"
	if urlPath == "//" {
		return nil, fmt.Errorf("page at /: %w", ErrNotFound)
	}

	var pages []models.Page
	err := withArticle(s.db).Where("url_path = ? AND live = ?", urlPath, true).Limit(1).Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("load page at %s: %w", urlPath, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("page at %s: %w", urlPath, ErrNotFound)
	}
	collectTags(pages)
	return &pages[0], nil
}

// CreatePage adds page under parentID (nil for a top level page). Article
// pages must come with fields. The page starts as a draft.
func (s *Store) CreatePage(parentID *uint, page *models.Page, fields *ArticleFields) error {
	if !page.Type.Valid() {
		return fmt.Errorf("%q: %w", page.Type, ErrInvalidPageType)
	}
	if page.Type.IsArticle() && fields == nil {
		return ErrArticleFieldsRequired
	}

	page.Slug = common.Slugify(page.Slug)
	if page.Slug == "" {
		page.Slug = common.Slugify(page.Title)
	}
	if err := s.Validate(page); err != nil {
		return err
	}

	var article *models.ArticlesPage
	if page.Type.IsArticle() {
		article = fields.row(0)
		if err := s.Validate(article); err != nil {
			return err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		parentPath := "/"
		if parentID != nil {
			var parent models.Page
			if err := tx.First(&parent, *parentID).Error; err != nil {
				return notFound(err, "parent page", *parentID)
			}
			if !parent.Type.AllowsChild(page.Type) {
				return fmt.Errorf("%s under %s: %w", page.Type, parent.Type, ErrSubpageNotAllowed)
			}
			parentPath = parent.URLPath
		}
		if err := checkSlug(tx, parentID, page.Slug, 0); err != nil {
			return err
		}

		page.ID = 0
		page.ParentID = parentID
		page.URLPath = parentPath + page.Slug + "/"
		page.Live = false
		page.FirstPublishedAt = nil
		page.LastPublishedAt = nil
		page.Article = nil
		if err := tx.Omit(clause.Associations).Create(page).Error; err != nil {
			return fmt.Errorf("create page: %w", err)
		}

		if article != nil {
			article.PageID = page.ID
			if err := saveArticle(tx, article, fields, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[Content] created %s page %d at %s", page.Type, page.ID, page.URLPath)
	if article != nil {
		page.Article = article
	}
	return nil
}

// UpdatePage changes the title, the slug and, for article pages, the article
// fields. Empty title or slug keep the current value; nil fields keep the
// article untouched. A new slug moves the whole subtree.
func (s *Store) UpdatePage(id uint, title, slug string, fields *ArticleFields) (*models.Page, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var page models.Page
		if err := tx.First(&page, id).Error; err != nil {
			return notFound(err, "page", id)
		}

		if title != "" {
			page.Title = title
		}
		oldSlug, oldPath := page.Slug, page.URLPath
		if slug != "" {
			page.Slug = common.Slugify(slug)
		}
		if err := s.Validate(&page); err != nil {
			return err
		}

		if page.Slug != oldSlug {
			if err := checkSlug(tx, page.ParentID, page.Slug, page.ID); err != nil {
				return err
			}
			page.URLPath = strings.TrimSuffix(oldPath, oldSlug+"/") + page.Slug + "/"
			err := tx.Model(&models.Page{}).
				Where("url_path LIKE ?", oldPath+"%").
				Update("url_path", gorm.Expr("? || SUBSTR(url_path, ?)", page.URLPath, len(oldPath)+1)).Error
			if err != nil {
				return fmt.Errorf("move subtree of page %d: %w", id, err)
			}
		}

		err := tx.Model(&models.Page{ID: id}).Updates(map[string]interface{}{
			"title":    page.Title,
			"slug":     page.Slug,
			"url_path": page.URLPath,
		}).Error
		if err != nil {
			return fmt.Errorf("update page %d: %w", id, err)
		}

		if fields != nil && page.Type.IsArticle() {
			article := fields.row(page.ID)
			if err := s.Validate(article); err != nil {
				return err
			}
			if err := saveArticle(tx, article, fields, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Content] updated page %d", id)
	return s.GetPage(id)
}

// saveArticle writes the variant row and replaces its relations. The row's
// created_at is only ever written on create.
func saveArticle(tx *gorm.DB, article *models.ArticlesPage, fields *ArticleFields, create bool) error {
	if article.CoverImageID != nil {
		var image models.Image
		if err := tx.First(&image, *article.CoverImageID).Error; err != nil {
			return notFound(err, "cover image", *article.CoverImageID)
		}
	}

	if err := checkBlockImages(tx, article.Body); err != nil {
		return err
	}

	if create {
		if err := tx.Omit(clause.Associations).Create(article).Error; err != nil {
			return fmt.Errorf("create article %d: %w", article.PageID, err)
		}
	} else {
		err := tx.Model(&models.ArticlesPage{PageID: article.PageID}).
			Select("date", "published_at", "cover_image_id", "intro", "body").
			Updates(article).Error
		if err != nil {
			return fmt.Errorf("update article %d: %w", article.PageID, err)
		}
	}

	if err := replaceLinks(tx, "article_page_authors", "author_id", &models.ArticleAuthor{}, article.PageID, fields.AuthorIDs); err != nil {
		return err
	}
	if err := replaceLinks(tx, "article_page_categories", "category_id", &models.ArticleCategory{}, article.PageID, fields.CategoryIDs); err != nil {
		return err
	}
	return setArticleTags(tx, article.PageID, fields.Tags)
}

// checkBlockImages makes sure every image block points at an existing image.
// Images deleted later are skipped at render time instead.
func checkBlockImages(tx *gorm.DB, body []models.Block) error {
	var ids []uint
	seen := make(map[uint]bool)
	for _, block := range body {
		if block.Type == models.BlockImage && block.ImageID != nil && !seen[*block.ImageID] {
			seen[*block.ImageID] = true
			ids = append(ids, *block.ImageID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Image{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("check body images: %w", err)
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("body image %v: %w", ids, ErrNotFound)
	}
	return nil
}

// replaceLinks rewrites the rows of a page's many-to-many join table after
// checking that every referenced snippet exists.
func replaceLinks(tx *gorm.DB, table, column string, model interface{}, pageID uint, ids []uint) error {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	if len(unique) > 0 {
		var count int64
		if err := tx.Model(model).Where("id IN ?", unique).Count(&count).Error; err != nil {
			return fmt.Errorf("check %s: %w", column, err)
		}
		if count != int64(len(unique)) {
			return fmt.Errorf("%s %v: %w", column, unique, ErrNotFound)
		}
	}

	if err := tx.Exec("DELETE FROM "+table+" WHERE page_id = ?", pageID).Error; err != nil {
		return fmt.Errorf("clear %s of page %d: %w", table, pageID, err)
	}
	for _, id := range unique {
		if err := tx.Exec("INSERT INTO "+table+" (page_id, "+column+") VALUES (?, ?)", pageID, id).Error; err != nil {
			return fmt.Errorf("link page %d to %s %d: %w", pageID, column, id, err)
		}
	}
	return nil
}

func checkSlug(tx *gorm.DB, parentID *uint, slug string, excludeID uint) error {
	query := tx.Model(&models.Page{}).Where("slug = ? AND id <> ?", slug, excludeID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check slug %q: %w", slug, err)
	}
	if count > 0 {
		return fmt.Errorf("%q: %w", slug, ErrSlugInUse)
	}
	return nil
}

func (s *Store) PublishPage(id uint) (*models.Page, error) {
	return s.PublishPageAt(id, time.Now())
}

// PublishPageAt makes the page live. first_published_at is set on the first
// publication only.
func (s *Store) PublishPageAt(id uint, at time.Time) (*models.Page, error) {
	page, err := s.GetPage(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"live":              true,
		"last_published_at": at,
	}
	if page.FirstPublishedAt == nil {
		updates["first_published_at"] = at
	}
	if err := s.db.Model(&models.Page{ID: id}).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("publish page %d: %w", id, err)
	}
	log.Printf("[Content] published page %d", id)
	return s.GetPage(id)
}

func (s *Store) UnpublishPage(id uint) (*models.Page, error) {
	if _, err := s.GetPage(id); err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Page{ID: id}).Update("live", false).Error; err != nil {
		return nil, fmt.Errorf("unpublish page %d: %w", id, err)
	}
	log.Printf("[Content] unpublished page %d", id)
	return s.GetPage(id)
}

// DeletePage deletes the page and all of its descendants and returns how
// many pages were removed.
func (s *Store) DeletePage(id uint) (int, error) {
	deleted := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var page models.Page
		if err := tx.First(&page, id).Error; err != nil {
			return notFound(err, "page", id)
		}

		var subtree []models.Page
		if err := tx.Where("url_path LIKE ?", page.URLPath+"%").Order("url_path DESC").Find(&subtree).Error; err != nil {
			return fmt.Errorf("load subtree of page %d: %w", id, err)
		}
		for i := range subtree {
			if err := tx.Delete(&subtree[i]).Error; err != nil {
				return fmt.Errorf("delete page %d: %w", subtree[i].ID, err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[Content] deleted page %d and %d descendants", id, deleted-1)
	return deleted, nil
}
