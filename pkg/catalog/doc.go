// Package catalog implements the product catalog service: cache-aside
// reads over a persistent document store, dynamic query construction for
// filtered search, and write paths that keep the cache coherent through a
// single invalidation routine.
//
// # Read Paths
//
// Latest, Categories, AdminProducts, and Product follow the cache-aside
// pattern: consult the cache store, on miss query the document store and
// populate the cache before returning. Search is never cached; it builds a
// filter from the request parameters and issues the page query and the
// count query concurrently with the identical filter.
//
// # Write Paths and Invalidation
//
// Create, Update, and Delete are linear: validate, touch the blob store for
// photo changes, persist the mutation, then invalidate the affected cache
// entries before reporting success. Within one write the persistent
// mutation always completes before invalidation is issued. A concurrent
// read can still re-populate the cache with pre-write data in the narrow
// window between the mutation and the invalidation; that race is accepted
// and documented rather than locked away.
//
//	svc, err := catalog.New(catalog.Config{
//		Store:    storeClient,
//		Blob:     blobStore,
//		Cache:    cache.NewStore(),
//		PageSize: 8,
//	})
//
//	products, err := svc.Latest(ctx)
//
//	// external write path (order placement reducing stock)
//	svc.Invalidate(catalog.Invalidation{Product: true, Admin: true, ProductID: id})
//
// # Errors
//
// Failures carry a Kind: validation and not_found are request-level
// outcomes, upload and store are collaborator failures. Cleanup side
// effects (staged file removal, old-photo release) are logged and swallowed
// and never mask the primary outcome.
package catalog
