package content

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"newsroom/models"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidPageType       = errors.New("unknown page type")
	ErrSubpageNotAllowed     = errors.New("page type not allowed under this parent")
	ErrSlugInUse             = errors.New("slug already used by a sibling page")
	ErrArticleFieldsRequired = errors.New("article pages need article fields")
)

// Store is the persistence layer for snippets, images, tags and the page tree.
type Store struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewStore(db *gorm.DB) *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateBlock, models.Block{})
	return &Store{db: db, validate: v}
}

func validateBlock(sl validator.StructLevel) {
	block := sl.Current().Interface().(models.Block)
	if block.Type != models.BlockEmbed {
		return
	}
	if err := sl.Validator().Var(block.Value, "url"); err != nil {
		sl.ReportError(block.Value, "Value", "Value", "url", "")
	}
}

// Validate checks the struct tags of a model.
func (s *Store) Validate(v interface{}) error {
	return s.validate.Struct(v)
}

// notFound turns gorm's missing-record error into ErrNotFound.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %d: %w", what, id, err)
}
