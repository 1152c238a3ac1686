// Package pagination derives the page-window shown under a product list from
// the server's paging descriptor.
package pagination

import "github.com/GTDGit/gtd_console/internal/models"

// DefaultRadius is the number of pages shown on each side of the current page.
const DefaultRadius = 2

// PageItem is one entry of the page list: a page number or a gap marker.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Window is the derived paging widget state.
type Window struct {
	Pages       []PageItem `json:"pages"`
	StartItem   int        `json:"startItem"`
	EndItem     int        `json:"endItem"`
	Current     int        `json:"currentPage"`
	Total       int        `json:"totalPages"`
	TotalItems  int        `json:"totalItems"`
	HasNext     bool       `json:"hasNextPage"`
	HasPrevious bool       `json:"hasPrevPage"`
}

// Empty reports whether there is nothing to page through.
func (w Window) Empty() bool {
	return len(w.Pages) == 0
}

// Project builds the abbreviated page list for d: the first and last page,
// the pages within radius of the current one, and an ellipsis wherever pages
// are skipped. A descriptor with at most one page yields the zero Window.
func Project(d models.Pagination, radius int) Window {
	if radius <= 0 {
		radius = DefaultRadius
	}
	d = d.Normalize(models.DefaultPageSize)
	if d.TotalPages <= 1 {
		return Window{}
	}

	current, total := d.CurrentPage, d.TotalPages
	pages := []PageItem{{Number: 1}}
	if current-radius > 2 {
		pages = append(pages, PageItem{Ellipsis: true})
	}
	for i := max(2, current-radius); i <= min(total-1, current+radius); i++ {
		pages = append(pages, PageItem{Number: i})
	}
	if current+radius < total-1 {
		pages = append(pages, PageItem{Ellipsis: true})
	}
	pages = append(pages, PageItem{Number: total})

	return Window{
		Pages:       pages,
		StartItem:   (current-1)*d.ItemsPerPage + 1,
		EndItem:     min(current*d.ItemsPerPage, d.TotalItems),
		Current:     current,
		Total:       total,
		TotalItems:  d.TotalItems,
		HasNext:     d.HasNextPage,
		HasPrevious: d.HasPrevPage,
	}
}
