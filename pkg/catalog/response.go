package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/GTDGit/gtd_console/internal/models"
)

// ProductPage is one page of products together with its paging descriptor.
type ProductPage struct {
	Items      []models.Product  `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// listResponse mirrors GET /products. Both fields may be missing.
type listResponse struct {
	Data       []models.Product   `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// envelope is the optional {"data": ...} wrapper around single products.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorBody is the error shape returned by the product service.
type errorBody struct {
	Message string `json:"message"`
}

// decodeProduct decodes a product that may or may not be wrapped in a data
// envelope.
func decodeProduct(body []byte) (*models.Product, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	raw := body
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		raw = env.Data
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// extractMessage returns the message field of an error body, if any.
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Message
}
