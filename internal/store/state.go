package store

import (
	"slices"

	"github.com/GTDGit/gtd_console/internal/models"
)

// State is the product view state read by the presentation layer.
// Products keep the server's order.
type State struct {
	Products   []models.Product  `json:"products"`
	Pagination models.Pagination `json:"pagination"`
	Query      ListQuery         `json:"query"`

	Listing  bool `json:"loading"`
	Creating bool `json:"creating"`
	Updating bool `json:"updating"`
	Deleting bool `json:"deleting"`

	// Error is the message of the last failed operation. It is cleared by
	// every new request.
	Error *string `json:"error"`
}

// InitialState returns the state of a store that has not fetched anything.
func InitialState() State {
	return State{
		Products:   []models.Product{},
		Pagination: models.EmptyPagination(models.DefaultPageSize),
		Query:      ListQuery{Page: 1, PageSize: models.DefaultPageSize},
	}
}

// Writing reports whether a create or an update is in flight.
func (s State) Writing() bool {
	return s.Creating || s.Updating
}

// ErrorMessage returns the last error message or an empty string.
func (s State) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// clone returns a copy that shares no mutable memory with s.
func (s State) clone() State {
	s.Products = slices.Clone(s.Products)
	if s.Error != nil {
		msg := *s.Error
		s.Error = &msg
	}
	return s
}
