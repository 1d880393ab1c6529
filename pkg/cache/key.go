package cache

// Cache key namespace for the product catalog. Keys are derived here and
// nowhere else so readers, writers, and the invalidation routine cannot
// drift apart.
const (
	// KeyLatestProducts holds the five most recently created products.
	KeyLatestProducts = "latest-products"

	// KeyCategories holds the distinct category values.
	KeyCategories = "categories"

	// KeyAllProducts holds the unfiltered admin product list.
	KeyAllProducts = "all-products"
)

// ProductKey returns the cache key for a single product. The id must be the
// product identity in its canonical string form.
func ProductKey(id string) string {
	return "product-" + id
}
