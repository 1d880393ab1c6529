package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storebase/catalog/pkg/blob"
	"github.com/storebase/catalog/pkg/cache"
	"github.com/storebase/catalog/pkg/query"
	"github.com/storebase/catalog/pkg/store"
)

// latestLimit is the number of products the latest-products view holds.
const latestLimit = 5

// categoryField is the document field the categories view is distinct over.
const categoryField = "category"

// Config holds the service dependencies.
type Config struct {
	// Store is the persistent product store.
	Store store.Client

	// Blob is the photo blob store.
	Blob blob.Store

	// Cache is the process-wide cache store.
	Cache *cache.Store

	// PageSize is the search page size (default 8).
	PageSize int
}

// Service orchestrates the cache store, the document store, and the blob
// store: cache-aside reads, query building for search, and write paths that
// invalidate every cache entry a write could have made stale.
type Service struct {
	store    store.Client
	blob     blob.Store
	cache    *cache.Store
	pageSize int
	logger   zerolog.Logger
}

// New creates a catalog service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store client is required")
	}
	if cfg.Blob == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = query.DefaultPageSize
	}

	return &Service{
		store:    cfg.Store,
		blob:     cfg.Blob,
		cache:    cfg.Cache,
		pageSize: cfg.PageSize,
		logger:   log.With().Str("component", "catalog").Logger(),
	}, nil
}

// readThrough is the cache-aside read: consult the cache, on miss fetch
// from the source of truth and populate before returning. An entry that
// fails to decode is treated as a miss and overwritten (fail open: the
// cache is a performance layer, never a source of truth). A fetch failure
// leaves the cache unpopulated for the key.
func readThrough[T any](s *Service, key string, fetch func() (T, error)) (T, error) {
	if data, ok := s.cache.Get(key); ok {
		v, err := decodeEntry[T](data)
		if err == nil {
			return v, nil
		}
		s.logger.Warn().Err(err).Str("key", key).Msg("Undecodable cache entry, refetching")
	}

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	data, err := encodeEntry(v)
	if err != nil {
		// Still serve the value; only the cache write is lost.
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return v, nil
	}
	s.cache.Set(key, data)
	return v, nil
}

// Latest returns the five most recently created products.
func (s *Service) Latest(ctx context.Context) (products []store.Product, err error) {
	defer func(start time.Time) { observeOp("latest", time.Since(start).Seconds(), err) }(time.Now())

	return readThrough(s, cache.KeyLatestProducts, func() ([]store.Product, error) {
		ps, err := s.store.Find(ctx, store.Filter{}, store.FindOptions{
			Sort:  store.SortCreatedDesc,
			Limit: latestLimit,
		})
		if err != nil {
			return nil, storeError("latest products", err)
		}
		return ps, nil
	})
}

// Categories returns the distinct product categories.
func (s *Service) Categories(ctx context.Context) (categories []string, err error) {
	defer func(start time.Time) { observeOp("categories", time.Since(start).Seconds(), err) }(time.Now())

	return readThrough(s, cache.KeyCategories, func() ([]string, error) {
		cs, err := s.store.Distinct(ctx, categoryField)
		if err != nil {
			return nil, storeError("categories", err)
		}
		return cs, nil
	})
}

// AdminProducts returns the unfiltered product list.
func (s *Service) AdminProducts(ctx context.Context) (products []store.Product, err error) {
	defer func(start time.Time) { observeOp("admin_products", time.Since(start).Seconds(), err) }(time.Now())

	return readThrough(s, cache.KeyAllProducts, func() ([]store.Product, error) {
		ps, err := s.store.Find(ctx, store.Filter{}, store.FindOptions{})
		if err != nil {
			return nil, storeError("admin products", err)
		}
		return ps, nil
	})
}

// Product returns a single product by id. A missing id is returned as a
// Not-Found error and is not cached: caching the absence would need an
// invalidation trigger no write path produces.
func (s *Service) Product(ctx context.Context, id uuid.UUID) (p store.Product, err error) {
	defer func(start time.Time) { observeOp("product", time.Since(start).Seconds(), err) }(time.Now())

	return readThrough(s, cache.ProductKey(id.String()), func() (store.Product, error) {
		p, err := s.store.FindByID(ctx, id)
		if err != nil {
			return store.Product{}, storeError(id.String(), err)
		}
		return p, nil
	})
}

// SearchResult is one page of a filtered product search.
type SearchResult struct {
	Products   []store.Product `json:"products"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

// Search returns a filtered, sorted, paged product listing. Results are
// never cached: the parameter space is unbounded and every combination
// would need write-path invalidation.
//
// The page contents and the total matching count are fetched concurrently
// with the identical filter, so count and contents are consistent with
// each other.
func (s *Service) Search(ctx context.Context, params query.Params) (res SearchResult, err error) {
	defer func(start time.Time) { observeOp("search", time.Since(start).Seconds(), err) }(time.Now())

	filter, sort, page := query.Build(params, s.pageSize)

	var (
		wg       sync.WaitGroup
		paged    []store.Product
		matching []store.Product
		pagedErr error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		paged, pagedErr = s.store.Find(ctx, filter, store.FindOptions{
			Sort:  sort,
			Limit: page.Limit,
			Skip:  page.Skip,
		})
	}()
	go func() {
		defer wg.Done()
		matching, countErr = s.store.Find(ctx, filter, store.FindOptions{})
	}()
	wg.Wait()

	if pagedErr != nil {
		return SearchResult{}, storeError("search page", pagedErr)
	}
	if countErr != nil {
		return SearchResult{}, storeError("search count", countErr)
	}

	total := (len(matching) + int(page.Limit) - 1) / int(page.Limit)

	return SearchResult{
		Products:   paged,
		Page:       page.Number,
		TotalPages: total,
	}, nil
}
