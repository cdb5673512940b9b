package models

type PageType string

const (
	PageTypeGeneric           PageType = "page"
	PageTypeArticlesIndexPage PageType = "articles_index_page"
	PageTypeArticlesPage      PageType = "articles_page"
	PageTypeArticleTagIndex   PageType = "article_tag_index_page"
	PageTypeNewsIndexPage     PageType = "news_index_page"
)

var pageTypes = []PageType{
	PageTypeGeneric,
	PageTypeArticlesIndexPage,
	PageTypeArticlesPage,
	PageTypeArticleTagIndex,
	PageTypeNewsIndexPage,
}

// subpageTypes restricts which page types may be created under a parent.
// Types missing from the map accept any child.
var subpageTypes = map[PageType][]PageType{
	PageTypeArticlesIndexPage: {PageTypeArticlesPage},
	PageTypeNewsIndexPage:     {PageTypeArticlesPage},
}

func PageTypes() []PageType {
	return append([]PageType(nil), pageTypes...)
}

func (t PageType) Valid() bool {
	for _, known := range pageTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AllowsChild reports whether a page of type child may be placed under t.
func (t PageType) AllowsChild(child PageType) bool {
	allowed, restricted := subpageTypes[t]
	if !restricted {
		return true
	}
	for _, a := range allowed {
		if a == child {
			return true
		}
	}
	return false
}

func (t PageType) IsArticle() bool {
	return t == PageTypeArticlesPage
}
