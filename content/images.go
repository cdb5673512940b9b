package content

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"newsroom/models"
)

func (s *Store) ListImages() ([]models.Image, error) {
	var images []models.Image
	if err := s.db.Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (s *Store) GetImage(id uint) (*models.Image, error) {
	var image models.Image
	if err := s.db.First(&image, id).Error; err != nil {
		return nil, notFound(err, "image", id)
	}
	return &image, nil
}

// ImagesByID loads the images with the given ids, keyed by id. Unknown ids
// are left out.
func (s *Store) ImagesByID(ids []uint) (map[uint]models.Image, error) {
	found := make(map[uint]models.Image, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var images []models.Image
	if err := s.db.Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	for _, image := range images {
		found[image.ID] = image
	}
	return found, nil
}

// CreateImage registers an image record. The file itself lives in external
// storage under FileKey, which defaults to a fresh UUID.
func (s *Store) CreateImage(image *models.Image) error {
	if image.FileKey == "" {
		image.FileKey = uuid.NewString()
	}
	if err := s.Validate(image); err != nil {
		return err
	}
	if err := s.db.Create(image).Error; err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	log.Printf("[Content] created image %d (%s)", image.ID, image.FileKey)
	return nil
}

// DeleteImage removes the image record. Avatars and cover images pointing
// at it are set to NULL by the model hook.
func (s *Store) DeleteImage(id uint) error {
	image, err := s.GetImage(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(image).Error; err != nil {
		return fmt.Errorf("delete image %d: %w", id, err)
	}
	log.Printf("[Content] deleted image %d", id)
	return nil
}
