package blocks

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"newsroom/models"
)

// Rendered is one body block turned into an HTML fragment.
type Rendered struct {
	ID   string           `json:"id"`
	Type models.BlockType `json:"type"`
	HTML template.HTML    `json:"html"`
}

// ImageURL maps an image record to the address it is served from.
type ImageURL func(models.Image) string

type Renderer struct {
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	imageURL ImageURL
}

func NewRenderer(imageURL ImageURL) *Renderer {
	if imageURL == nil {
		imageURL = func(img models.Image) string { return "/media/" + img.FileKey }
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
		),
		policy:   bluemonday.UGCPolicy(),
		imageURL: imageURL,
	}
}

// Markdown converts paragraph source to sanitized HTML.
func (r *Renderer) Markdown(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return template.HTMLEscapeString(source)
	}
	return r.policy.Sanitize(buf.String())
}

// Render renders body in order. images holds the image records referenced
// by image blocks; blocks whose image is gone are dropped.
func (r *Renderer) Render(body []models.Block, images map[uint]models.Image) []Rendered {
	out := make([]Rendered, 0, len(body))
	for _, block := range body {
		var html string
		switch block.Type {
		case models.BlockHeading:
			html = "<h2>" + template.HTMLEscapeString(block.Value) + "</h2>"
		case models.BlockQuote:
			html = "<blockquote>" + template.HTMLEscapeString(block.Value) + "</blockquote>"
		case models.BlockParagraph:
			html = r.Markdown(block.Value)
		case models.BlockImage:
			if block.ImageID == nil {
				continue
			}
			img, ok := images[*block.ImageID]
			if !ok {
				continue
			}
			html = fmt.Sprintf(`<img src="%s" alt="%s" width="%d" height="%d">`,
				template.HTMLEscapeString(r.imageURL(img)),
				template.HTMLEscapeString(img.Title), img.Width, img.Height)
		case models.BlockEmbed:
			html = r.policy.Sanitize(fmt.Sprintf(`<a href="%s">%s</a>`,
				template.HTMLEscapeString(block.Value), template.HTMLEscapeString(block.Value)))
		default:
			continue
		}
		out = append(out, Rendered{
			ID:   block.ID,
			Type: block.Type,
			HTML: template.HTML(strings.TrimSpace(html)),
		})
	}
	return out
}

// ImageIDs collects the image ids referenced by body.
func ImageIDs(body []models.Block) []uint {
	var ids []uint
	for _, block := range body {
		if block.Type == models.BlockImage && block.ImageID != nil {
			ids = append(ids, *block.ImageID)
		}
	}
	return ids
}
