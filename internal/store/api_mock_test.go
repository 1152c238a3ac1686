package store

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/GTDGit/gtd_console/internal/models"
	"github.com/GTDGit/gtd_console/pkg/catalog"
)

// apiMock is a testify/mock for ProductAPI.
type apiMock struct{ mock.Mock }

func (m *apiMock) List(ctx context.Context, page, pageSize int, search string) (*catalog.ProductPage, error) {
	args := m.Called(ctx, page, pageSize, search)
	if v := args.Get(0); v != nil {
		return v.(*catalog.ProductPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *apiMock) Create(ctx context.Context, draft models.ProductDraft) (*models.Product, error) {
	args := m.Called(ctx, draft)
	if v := args.Get(0); v != nil {
		return v.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *apiMock) Update(ctx context.Context, id string, draft models.ProductDraft) (*models.Product, error) {
	args := m.Called(ctx, id, draft)
	if v := args.Get(0); v != nil {
		return v.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *apiMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recorder collects intents emitted by effect runs.
type recorder struct {
	mu      sync.Mutex
	intents []Intent
}

func (r *recorder) put(in Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, in)
}

func (r *recorder) kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, 0, len(r.intents))
	for _, in := range r.intents {
		out = append(out, in.Kind)
	}
	return out
}

func (r *recorder) at(i int) Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intents[i]
}
