// Package testutil provides in-memory store and blob-store doubles used by
// unit tests, the integration suite, and the runnable example.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/storebase/catalog/pkg/store"
)

// MemStore is an in-memory store.Client with call tracking and failure
// injection. Products keep insertion order, which serves as the store's
// default order.
type MemStore struct {
	mu       sync.RWMutex
	products []store.Product

	// Failure injection: when non-nil, the corresponding operation fails.
	FindErr     error
	FindByIDErr error
	DistinctErr error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error

	// Call tracking.
	FindCalls     int
	FindByIDCalls int
	DistinctCalls int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Seed inserts products directly, bypassing call tracking.
func (m *MemStore) Seed(ps ...store.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, ps...)
}

// Len returns the number of stored products.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

func matches(f store.Filter, p store.Product) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// FindByID implements store.Client.
func (m *MemStore) FindByID(_ context.Context, id uuid.UUID) (store.Product, error) {
	m.mu.Lock()
	m.FindByIDCalls++
	err := m.FindByIDErr
	m.mu.Unlock()
	if err != nil {
		return store.Product{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return store.Product{}, store.ErrNotFound
}

// Find implements store.Client.
func (m *MemStore) Find(_ context.Context, f store.Filter, opts store.FindOptions) ([]store.Product, error) {
	m.mu.Lock()
	m.FindCalls++
	err := m.FindErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	var out []store.Product
	for _, p := range m.products {
		if matches(f, p) {
			out = append(out, p)
		}
	}
	m.mu.RUnlock()

	switch opts.Sort {
	case store.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case store.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case store.SortCreatedDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			out = nil
		} else {
			out = out[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Distinct implements store.Client. Only the category field is populated
// by catalog writes, but any product field name with string values works.
func (m *MemStore) Distinct(_ context.Context, field string) ([]string, error) {
	m.mu.Lock()
	m.DistinctCalls++
	err := m.DistinctErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, p := range m.products {
		var v string
		switch field {
		case "category":
			v = p.Category
		case "name":
			v = p.Name
		default:
			continue
		}
		seen[v] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// Create implements store.Client.
func (m *MemStore) Create(_ context.Context, p store.Product) (store.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return store.Product{}, m.CreateErr
	}
	m.products = append(m.products, p)
	return p, nil
}

// UpdateByID implements store.Client.
func (m *MemStore) UpdateByID(_ context.Context, id uuid.UUID, u store.Update) (store.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return store.Product{}, m.UpdateErr
	}
	for i := range m.products {
		if m.products[i].ID != id {
			continue
		}
		p := &m.products[i]
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.Category != nil {
			p.Category = *u.Category
		}
		if u.Price != nil {
			p.Price = *u.Price
		}
		if u.Stock != nil {
			p.Stock = *u.Stock
		}
		if u.Photo != nil {
			p.Photo = *u.Photo
		}
		return *p, nil
	}
	return store.Product{}, store.ErrNotFound
}

// DeleteByID implements store.Client.
func (m *MemStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
