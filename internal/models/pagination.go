package models

// DefaultPageSize is the page size used when none is requested.
const DefaultPageSize = 10

// Pagination is the server-reported paging descriptor for a product list.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// EmptyPagination returns the conservative descriptor used when the server
// does not report any paging metadata.
func EmptyPagination(pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pagination{
		CurrentPage:  1,
		TotalPages:   1,
		TotalItems:   0,
		ItemsPerPage: pageSize,
	}
}

// Normalize clamps the descriptor into a consistent shape and derives the
// next/previous flags from the page numbers. fallbackSize is used when the
// descriptor carries no usable page size.
func (p Pagination) Normalize(fallbackSize int) Pagination {
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.TotalItems < 0 {
		p.TotalItems = 0
	}
	if p.ItemsPerPage < 1 {
		p.ItemsPerPage = fallbackSize
		if p.ItemsPerPage < 1 {
			p.ItemsPerPage = DefaultPageSize
		}
	}
	p.HasNextPage = p.CurrentPage < p.TotalPages
	p.HasPrevPage = p.CurrentPage > 1
	return p
}
