// Package cache provides the process-wide in-memory cache store for the
// product catalog, along with the catalog's cache key namespace.
//
// The store is a concurrent key -> serialized-value mapping with existence
// check, get, set, and delete-by-key operations. It is strictly a
// performance layer: callers fail open to the persistent store when an
// entry is absent or undecodable, and the canonical copy of every product
// always lives in the document store.
//
// # Basic Usage
//
//	store := cache.NewStore()
//
//	if data, ok := store.Get(cache.KeyLatestProducts); ok {
//		// decode and return cached value
//	}
//
//	// miss: query the source of truth, then populate
//	store.Set(cache.KeyLatestProducts, data)
//
//	// invalidation after a write
//	store.Delete(cache.ProductKey(id))
//
// # Key Namespace
//
// All catalog keys are defined in this package:
//
//   - "latest-products" - five most recently created products
//   - "categories"      - distinct category values
//   - "all-products"    - unfiltered admin list
//   - "product-{id}"    - single product by canonical id string
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - catalog_cache_hits_total{layer="memory"} - Cache hits
//   - catalog_cache_misses_total - Cache misses
//   - catalog_cache_entries - Live entry count
//   - catalog_cache_size_bytes{layer="memory"} - Stored bytes
//   - catalog_cache_deletes_total - Invalidation deletes
package cache
