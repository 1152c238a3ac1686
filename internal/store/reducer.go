package store

import (
	"github.com/GTDGit/gtd_console/internal/models"
	"github.com/GTDGit/gtd_console/pkg/catalog"
)

// Reduce folds one intent into the state and returns the new state. It never
// modifies s. Unknown kinds, and known kinds carrying a payload of the wrong
// type, leave the state as it was.
func Reduce(s State, in Intent) State {
	switch in.Kind {
	case KindListRequested:
		q, ok := listQuery(in)
		if !ok {
			return s
		}
		s.Listing = true
		s.Query = q
		s.Error = nil
	case KindListSucceeded:
		page, ok := in.Payload.(catalog.ProductPage)
		if !ok {
			return s
		}
		s.Listing = false
		s.Products = page.Items
		if s.Products == nil {
			s.Products = []models.Product{}
		}
		s.Pagination = page.Pagination
		s.Error = nil
	case KindListFailed:
		return failed(s, in, func(s *State) { s.Listing = false })

	case KindCreateRequested:
		if _, ok := in.Payload.(models.ProductDraft); !ok {
			return s
		}
		s.Creating = true
		s.Error = nil
	case KindCreateSucceeded:
		p, ok := in.Payload.(models.Product)
		if !ok {
			return s
		}
		s.Creating = false
		products := make([]models.Product, 0, len(s.Products)+1)
		products = append(products, s.Products...)
		s.Products = append(products, p)
		s.Error = nil
	case KindCreateFailed:
		return failed(s, in, func(s *State) { s.Creating = false })

	case KindUpdateRequested:
		if _, ok := in.Payload.(UpdateRequest); !ok {
			return s
		}
		s.Updating = true
		s.Error = nil
	case KindUpdateSucceeded:
		p, ok := in.Payload.(models.Product)
		if !ok {
			return s
		}
		s.Updating = false
		products := make([]models.Product, len(s.Products))
		for i, existing := range s.Products {
			if existing.ID == p.ID {
				products[i] = p
			} else {
				products[i] = existing
			}
		}
		s.Products = products
		s.Error = nil
	case KindUpdateFailed:
		return failed(s, in, func(s *State) { s.Updating = false })

	case KindDeleteRequested:
		if _, ok := in.Payload.(string); !ok {
			return s
		}
		s.Deleting = true
		s.Error = nil
	case KindDeleteSucceeded:
		id, ok := in.Payload.(string)
		if !ok {
			return s
		}
		s.Deleting = false
		products := make([]models.Product, 0, len(s.Products))
		for _, existing := range s.Products {
			if existing.ID != id {
				products = append(products, existing)
			}
		}
		s.Products = products
		s.Error = nil
	case KindDeleteFailed:
		return failed(s, in, func(s *State) { s.Deleting = false })
	}
	return s
}

func failed(s State, in Intent, settle func(*State)) State {
	msg, ok := in.Payload.(string)
	if !ok {
		return s
	}
	settle(&s)
	s.Error = &msg
	return s
}
