package content

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"newsroom/common"
	"newsroom/models"
)

func (s *Store) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ParseTagNames splits a comma separated tag field.
func ParseTagNames(field string) []string {
	var names []string
	for _, name := range strings.Split(field, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// setArticleTags replaces the tag links of an article with the given names.
// Tags are matched by slug and created when missing; names that slugify to
// nothing are ignored.
func setArticleTags(tx *gorm.DB, pageID uint, names []string) error {
	if err := tx.Where("content_object_id = ?", pageID).Delete(&models.ArticlePageTag{}).Error; err != nil {
		return fmt.Errorf("clear tags of page %d: %w", pageID, err)
	}

	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := common.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		var tag models.Tag
		err := tx.Where("slug = ?", slug).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name, Slug: slug}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}

		link := models.ArticlePageTag{ContentObjectID: pageID, TagID: tag.ID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("tag page %d with %q: %w", pageID, slug, err)
		}
	}
	return nil
}

func (s *Store) ArticleTags(pageID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Joins("JOIN article_page_tags ON article_page_tags.tag_id = tags.id").
		Where("article_page_tags.content_object_id = ?", pageID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("tags of page %d: %w", pageID, err)
	}
	return tags, nil
}
