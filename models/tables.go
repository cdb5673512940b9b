package models

import (
	"time"

	"gorm.io/datatypes"
)

type Editor struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

type Image struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	FileKey   string    `gorm:"size:255;not null;uniqueIndex" json:"file_key" validate:"max=255"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

type ArticleCategory struct {
	ID   uint   `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
}

type ArticleAuthor struct {
	ID         uint   `gorm:"primary_key" json:"id"`
	Name       string `gorm:"size:255" json:"name" validate:"max=255"`
	Bio        string `gorm:"size:255" json:"bio" validate:"max=255"`
	TwitchName string `gorm:"size:255" json:"twitch_name" validate:"max=255"`
	Email      string `gorm:"size:255" json:"email" validate:"max=255"`
	AvatarID   *uint  `gorm:"index" json:"avatar_id"`
	Avatar     *Image `json:"avatar,omitempty" validate:"-"`
}

type Tag struct {
	ID   uint   `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;not null;uniqueIndex" json:"slug"`
}

// ArticlePageTag links an article page to one tag of the shared vocabulary.
type ArticlePageTag struct {
	ID              uint `gorm:"primary_key" json:"id"`
	ContentObjectID uint `gorm:"not null;index;uniqueIndex:idx_article_page_tag" json:"content_object_id"`
	TagID           uint `gorm:"not null;index;uniqueIndex:idx_article_page_tag" json:"tag_id"`
	Tag             Tag  `json:"tag"`
}

// Page is a node of the content tree. Type selects the variant; variant
// columns live in their own table keyed by the page id.
type Page struct {
	ID               uint          `gorm:"primary_key" json:"id"`
	ParentID         *uint         `gorm:"index" json:"parent_id"`
	Type             PageType      `gorm:"size:64;not null;index" json:"type" validate:"required"`
	Title            string        `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug             string        `gorm:"size:255;not null;index" json:"slug" validate:"required,max=255"`
	URLPath          string        `gorm:"not null;index" json:"url_path"`
	Live             bool          `gorm:"default:false;index" json:"live"`
	FirstPublishedAt *time.Time    `gorm:"index" json:"first_published_at"`
	LastPublishedAt  *time.Time    `json:"last_published_at"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Article          *ArticlesPage `gorm:"foreignKey:PageID" json:"article,omitempty" validate:"-"`
}

type ArticlesPage struct {
	PageID       uint                       `gorm:"primaryKey;autoIncrement:false" json:"page_id"`
	Date         time.Time                  `gorm:"type:date;not null" json:"date" validate:"required"`
	CreatedAt    time.Time                  `json:"created_at"`
	PublishedAt  *time.Time                 `json:"published_at"`
	CoverImageID *uint                      `gorm:"index" json:"cover_image_id"`
	CoverImage   *Image                     `json:"cover_image,omitempty" validate:"-"`
	Intro        string                     `gorm:"size:250;not null" json:"intro" validate:"required,max=250"`
	Body         datatypes.JSONSlice[Block] `json:"body" validate:"dive"`
	Authors      []ArticleAuthor            `gorm:"many2many:article_page_authors;joinForeignKey:PageID;joinReferences:AuthorID" json:"authors" validate:"-"`
	Categories   []ArticleCategory          `gorm:"many2many:article_page_categories;joinForeignKey:PageID;joinReferences:CategoryID" json:"categories" validate:"-"`
	TaggedItems  []ArticlePageTag           `gorm:"foreignKey:ContentObjectID;references:PageID" json:"-" validate:"-"`
	Tags         []Tag                      `gorm:"-" json:"tags"`
}

type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockImage     BlockType = "image"
	BlockQuote     BlockType = "blockquote"
	BlockParagraph BlockType = "paragraph"
	BlockEmbed     BlockType = "embed"
)

// Block is one unit of an article body. Image blocks carry ImageID, every
// other type carries Value.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type" validate:"oneof=heading image blockquote paragraph embed"`
	Value   string    `json:"value,omitempty" validate:"required_unless=Type image"`
	ImageID *uint     `json:"image_id,omitempty" validate:"required_if=Type image"`
}

// CollectTags copies the preloaded tag rows into Tags.
func (a *ArticlesPage) CollectTags() {
	a.Tags = make([]Tag, 0, len(a.TaggedItems))
	for _, item := range a.TaggedItems {
		a.Tags = append(a.Tags, item.Tag)
	}
}
