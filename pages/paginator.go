package pages

import (
	"errors"
	"strconv"
	"strings"
)

// PerPage is the page size of the articles and news indexes.
const PerPage = 10

type Paginator struct {
	Count   int64
	PerPage int
}

// NumPages is never less than one, so an empty listing still has a first page.
func (p Paginator) NumPages() int {
	if p.Count <= 0 || p.PerPage <= 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Number resolves the raw "page" query value. Missing, non-integer and
// values below one select the first page; values past the end select the
// last page.
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return p.NumPages()
	}
	if err != nil || n < 1 {
		return 1
	}
	if last := p.NumPages(); n > last {
		return last
	}
	return n
}

// Bounds returns the offset and limit of page number n.
func (p Paginator) Bounds(n int) (offset, limit int) {
	return (n - 1) * p.PerPage, p.PerPage
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Number             int   `json:"number"`
	NumPages           int   `json:"num_pages"`
	Count              int64 `json:"count"`
	PerPage            int   `json:"per_page"`
	HasNext            bool  `json:"has_next"`
	HasPrevious        bool  `json:"has_previous"`
	NextPageNumber     *int  `json:"next_page_number"`
	PreviousPageNumber *int  `json:"previous_page_number"`
	StartIndex         int   `json:"start_index"`
	EndIndex           int   `json:"end_index"`
	Items              []T   `json:"items"`
}

func NewPage[T any](p Paginator, number int, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	page := &Page[T]{
		Number:      number,
		NumPages:    p.NumPages(),
		Count:       p.Count,
		PerPage:     p.PerPage,
		HasNext:     number < p.NumPages(),
		HasPrevious: number > 1,
		Items:       items,
	}
	if page.HasNext {
		next := number + 1
		page.NextPageNumber = &next
	}
	if page.HasPrevious {
		prev := number - 1
		page.PreviousPageNumber = &prev
	}
	if len(items) > 0 {
		page.StartIndex = (number-1)*p.PerPage + 1
		page.EndIndex = page.StartIndex + len(items) - 1
	}
	return page
}
