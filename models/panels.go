package models

// Panel groups fields shown together on an editing form.
type Panel struct {
	Heading string   `json:"heading,omitempty"`
	Fields  []string `json:"fields"`
}

var pagePanels = []Panel{
	{Fields: []string{"title"}},
}

var panelsByType = map[string][]Panel{
	"article_category": {
		{Fields: []string{"name"}},
	},
	"article_author": {
		{Fields: []string{"name"}},
		{Fields: []string{"bio"}},
		{Fields: []string{"email"}},
		{Fields: []string{"twitch_name"}},
		{Fields: []string{"avatar"}},
	},
	string(PageTypeArticlesPage): append(append([]Panel(nil), pagePanels...),
		Panel{Heading: "Article information", Fields: []string{"authors", "date", "tags", "categories"}},
		Panel{Fields: []string{"cover_image"}},
		Panel{Fields: []string{"intro"}},
		Panel{Fields: []string{"body"}},
		Panel{Fields: []string{"published_at"}},
	),
	string(PageTypeGeneric):           pagePanels,
	string(PageTypeArticlesIndexPage): pagePanels,
	string(PageTypeArticleTagIndex):   pagePanels,
	string(PageTypeNewsIndexPage):     pagePanels,
}

// PanelsFor returns the editing layout of a snippet or page type.
func PanelsFor(contentType string) ([]Panel, bool) {
	panels, ok := panelsByType[contentType]
	return panels, ok
}
