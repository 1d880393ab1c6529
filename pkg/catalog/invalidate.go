package catalog

import "github.com/storebase/catalog/pkg/cache"

// Invalidation describes which cache namespaces a write made stale. It is
// produced once per write and consumed exactly once by Invalidate.
type Invalidation struct {
	// Product invalidates the product-list views (latest products and
	// categories).
	Product bool `json:"product"`

	// Admin invalidates the unfiltered admin list.
	Admin bool `json:"admin"`

	// ProductID, when non-empty, invalidates the id-keyed entry for that
	// product (canonical string form).
	ProductID string `json:"productId,omitempty"`
}

// Invalidate removes every cache entry the request names. Deletes are
// idempotent, so callers need no knowledge of which keys currently exist.
//
// Invalidate is exported for write paths outside this service: any
// collaborator that mutates product state (an order reducing stock, a
// stock import) must call it after its write completes.
func (s *Service) Invalidate(inv Invalidation) {
	if inv.Product {
		s.cache.Delete(cache.KeyLatestProducts)
		s.cache.Delete(cache.KeyCategories)
	}
	if inv.Admin {
		s.cache.Delete(cache.KeyAllProducts)
	}
	if inv.ProductID != "" {
		s.cache.Delete(cache.ProductKey(inv.ProductID))
	}
}
