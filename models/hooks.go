package models

import "gorm.io/gorm"

// BeforeDelete removes everything owned by the page: its tag links, its
// author and category links and the variant row. Tags themselves stay.
func (p *Page) BeforeDelete(tx *gorm.DB) error {
	if p.ID == 0 {
		return nil
	}
	if err := tx.Where("content_object_id = ?", p.ID).Delete(&ArticlePageTag{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM article_page_authors WHERE page_id = ?", p.ID).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM article_page_categories WHERE page_id = ?", p.ID).Error; err != nil {
		return err
	}
	return tx.Where("page_id = ?", p.ID).Delete(&ArticlesPage{}).Error
}

// BeforeDelete clears references to the image instead of deleting the
// records that hold them.
func (i *Image) BeforeDelete(tx *gorm.DB) error {
	if i.ID == 0 {
		return nil
	}
	if err := tx.Model(&ArticleAuthor{}).Where("avatar_id = ?", i.ID).Update("avatar_id", nil).Error; err != nil {
		return err
	}
	return tx.Model(&ArticlesPage{}).Where("cover_image_id = ?", i.ID).Update("cover_image_id", nil).Error
}

// BeforeDelete drops the links to a category so no article points at it.
func (c *ArticleCategory) BeforeDelete(tx *gorm.DB) error {
	if c.ID == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM article_page_categories WHERE category_id = ?", c.ID).Error
}

func (a *ArticleAuthor) BeforeDelete(tx *gorm.DB) error {
	if a.ID == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM article_page_authors WHERE author_id = ?", a.ID).Error
}
