// Package store defines the persistent document-store contract for the
// product catalog, along with a MongoDB-backed implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by store clients.
var (
	// ErrNotFound is returned when the requested product does not exist.
	// It is distinct from transport or connectivity failures.
	ErrNotFound = errors.New("product not found")
)

// Product is the canonical catalog document. The cache layer only ever
// holds serialized snapshots of it; the store owns the source of truth.
type Product struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Category  string    `bson:"category" json:"category"`
	Price     float64   `bson:"price" json:"price"`
	Stock     int64     `bson:"stock" json:"stock"`
	Photo     string    `bson:"photo" json:"photo"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Filter describes the optional predicates of a product query, combined
// with logical AND. The zero value matches every document.
type Filter struct {
	// Search matches Name case-insensitively as a substring when non-empty.
	Search string

	// MaxPrice keeps products with Price <= *MaxPrice when non-nil.
	MaxPrice *float64

	// Category is an exact match when non-empty.
	Category string
}

// IsZero reports whether the filter carries no predicates.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.MaxPrice == nil && f.Category == ""
}

// Sort selects the result ordering of a Find.
type Sort string

const (
	// SortNone leaves the store's default order.
	SortNone Sort = ""

	// SortPriceAsc orders by price ascending.
	SortPriceAsc Sort = "price_asc"

	// SortPriceDesc orders by price descending.
	SortPriceDesc Sort = "price_desc"

	// SortCreatedDesc orders by creation time, newest first.
	SortCreatedDesc Sort = "created_desc"
)

// FindOptions carries sorting and paging for a Find. Zero Limit and Skip
// mean unbounded and none.
type FindOptions struct {
	Sort  Sort
	Limit int64
	Skip  int64
}

// Update describes a partial product update. Nil fields retain their prior
// value.
type Update struct {
	Name     *string  `bson:"name,omitempty"`
	Category *string  `bson:"category,omitempty"`
	Price    *float64 `bson:"price,omitempty"`
	Stock    *int64   `bson:"stock,omitempty"`
	Photo    *string  `bson:"photo,omitempty"`
}

// IsZero reports whether the update touches no fields.
func (u Update) IsZero() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil &&
		u.Stock == nil && u.Photo == nil
}

// Client is the generic document-collection contract the catalog service
// depends on. Implementations must return ErrNotFound for operations on a
// missing id and surface transport failures as distinct errors.
type Client interface {
	// FindByID returns the product with the given id.
	FindByID(ctx context.Context, id uuid.UUID) (Product, error)

	// Find returns products matching the filter, honoring FindOptions.
	Find(ctx context.Context, f Filter, opts FindOptions) ([]Product, error)

	// Distinct returns the distinct values of a document field.
	Distinct(ctx context.Context, field string) ([]string, error)

	// Create persists a new product and returns it.
	Create(ctx context.Context, p Product) (Product, error)

	// UpdateByID applies a partial update and returns the updated product.
	UpdateByID(ctx context.Context, id uuid.UUID, u Update) (Product, error)

	// DeleteByID removes the product with the given id.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
