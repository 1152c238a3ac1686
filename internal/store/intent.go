package store

import (
	"github.com/google/uuid"

	"github.com/GTDGit/gtd_console/internal/models"
	"github.com/GTDGit/gtd_console/pkg/catalog"
)

// Kind tags an Intent.
type Kind string

const (
	KindListRequested Kind = "products/list.requested"
	KindListSucceeded Kind = "products/list.succeeded"
	KindListFailed    Kind = "products/list.failed"

	KindCreateRequested Kind = "products/create.requested"
	KindCreateSucceeded Kind = "products/create.succeeded"
	KindCreateFailed    Kind = "products/create.failed"

	KindUpdateRequested Kind = "products/update.requested"
	KindUpdateSucceeded Kind = "products/update.succeeded"
	KindUpdateFailed    Kind = "products/update.failed"

	KindDeleteRequested Kind = "products/delete.requested"
	KindDeleteSucceeded Kind = "products/delete.succeeded"
	KindDeleteFailed    Kind = "products/delete.failed"
)

// Intent is a requested or completed product operation flowing through the
// store. Payload holds a kind-specific value:
//
//	ListRequested           ListQuery
//	ListSucceeded           catalog.ProductPage
//	CreateRequested         models.ProductDraft
//	UpdateRequested         UpdateRequest
//	DeleteRequested         string (product ID)
//	Create/UpdateSucceeded  models.Product
//	DeleteSucceeded         string (product ID)
//	*Failed                 string (error message)
type Intent struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// ListQuery selects a page of the product list.
type ListQuery struct {
	Page     int    `json:"page"`
	PageSize int    `json:"limit"`
	Search   string `json:"search,omitempty"`
}

// UpdateRequest pairs a product ID with its replacement fields.
type UpdateRequest struct {
	ID    string              `json:"id"`
	Draft models.ProductDraft `json:"productData"`
}

func newIntent(kind Kind, payload any) Intent {
	return Intent{ID: uuid.New().String(), Kind: kind, Payload: payload}
}

// ListRequested asks for a page of products. Non-positive page and pageSize
// fall back to the first page of DefaultPageSize items.
func ListRequested(page, pageSize int, search string) Intent {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return newIntent(KindListRequested, ListQuery{Page: page, PageSize: pageSize, Search: search})
}

// DefaultListRequested asks for the first page with default paging and no
// search term.
func DefaultListRequested() Intent {
	return ListRequested(1, models.DefaultPageSize, "")
}

// CreateRequested asks for a new product to be created from draft.
func CreateRequested(draft models.ProductDraft) Intent {
	return newIntent(KindCreateRequested, draft)
}

// UpdateRequested asks for the product id to be replaced by draft.
func UpdateRequested(id string, draft models.ProductDraft) Intent {
	return newIntent(KindUpdateRequested, UpdateRequest{ID: id, Draft: draft})
}

// DeleteRequested asks for the product id to be removed.
func DeleteRequested(id string) Intent {
	return newIntent(KindDeleteRequested, id)
}

func ListSucceeded(page catalog.ProductPage) Intent {
	return newIntent(KindListSucceeded, page)
}

func ListFailed(message string) Intent {
	return newIntent(KindListFailed, message)
}

func CreateSucceeded(p models.Product) Intent {
	return newIntent(KindCreateSucceeded, p)
}

func CreateFailed(message string) Intent {
	return newIntent(KindCreateFailed, message)
}

func UpdateSucceeded(p models.Product) Intent {
	return newIntent(KindUpdateSucceeded, p)
}

func UpdateFailed(message string) Intent {
	return newIntent(KindUpdateFailed, message)
}

func DeleteSucceeded(id string) Intent {
	return newIntent(KindDeleteSucceeded, id)
}

func DeleteFailed(message string) Intent {
	return newIntent(KindDeleteFailed, message)
}

// listQuery extracts the query of a ListRequested intent. A missing payload
// means the default first page.
func listQuery(in Intent) (ListQuery, bool) {
	switch q := in.Payload.(type) {
	case nil:
		return ListQuery{Page: 1, PageSize: models.DefaultPageSize}, true
	case ListQuery:
		if q.Page <= 0 {
			q.Page = 1
		}
		if q.PageSize <= 0 {
			q.PageSize = models.DefaultPageSize
		}
		return q, true
	default:
		return ListQuery{}, false
	}
}
