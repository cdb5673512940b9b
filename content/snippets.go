package content

import (
	"fmt"
	"log"

	"newsroom/models"
)

func (s *Store) ListCategories() ([]models.ArticleCategory, error) {
	var categories []models.ArticleCategory
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) GetCategory(id uint) (*models.ArticleCategory, error) {
	var category models.ArticleCategory
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	return &category, nil
}

// SaveCategory creates the category when its ID is zero and updates it otherwise.
func (s *Store) SaveCategory(category *models.ArticleCategory) error {
	if err := s.Validate(category); err != nil {
		return err
	}
	if category.ID != 0 {
		if _, err := s.GetCategory(category.ID); err != nil {
			return err
		}
	}
	if err := s.db.Save(category).Error; err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	log.Printf("[Content] saved category %d", category.ID)
	return nil
}

func (s *Store) DeleteCategory(id uint) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(category).Error; err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	log.Printf("[Content] deleted category %d", id)
	return nil
}

func (s *Store) ListAuthors() ([]models.ArticleAuthor, error) {
	var authors []models.ArticleAuthor
	if err := s.db.Preload("Avatar").Order("name").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

func (s *Store) GetAuthor(id uint) (*models.ArticleAuthor, error) {
	var author models.ArticleAuthor
	if err := s.db.Preload("Avatar").First(&author, id).Error; err != nil {
		return nil, notFound(err, "author", id)
	}
	return &author, nil
}

// SaveAuthor creates or updates an author. A non-nil AvatarID must name an
// existing image.
func (s *Store) SaveAuthor(author *models.ArticleAuthor) error {
	if err := s.Validate(author); err != nil {
		return err
	}
	if author.ID != 0 {
		if _, err := s.GetAuthor(author.ID); err != nil {
			return err
		}
	}
	if author.AvatarID != nil {
		if _, err := s.GetImage(*author.AvatarID); err != nil {
			return err
		}
	}
	author.Avatar = nil
	if err := s.db.Save(author).Error; err != nil {
		return fmt.Errorf("save author: %w", err)
	}
	log.Printf("[Content] saved author %d", author.ID)
	return nil
}

func (s *Store) DeleteAuthor(id uint) error {
	author, err := s.GetAuthor(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(author).Error; err != nil {
		return fmt.Errorf("delete author %d: %w", id, err)
	}
	log.Printf("[Content] deleted author %d", id)
	return nil
}
