package catalog

import "github.com/GTDGit/gtd_console/internal/models"

// productRequest is the body sent on create and update. Only imageUrl is
// ever transmitted; the draft's generic image field is folded into it.
type productRequest struct {
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Price       float64         `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

func newProductRequest(d models.ProductDraft) productRequest {
	return productRequest{
		Name:        d.Name,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
		ImageURL:    d.ResolvedImageURL(),
	}
}

// productFromDraft is the product a write of d under id would produce.
func productFromDraft(id string, d models.ProductDraft) models.Product {
	return models.Product{
		ID:          id,
		Name:        d.Name,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
		ImageURL:    d.ResolvedImageURL(),
	}
}
