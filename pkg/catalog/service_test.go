package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/storebase/catalog/internal/testutil"
	"github.com/storebase/catalog/pkg/cache"
	"github.com/storebase/catalog/pkg/query"
	"github.com/storebase/catalog/pkg/store"
)

func newTestService(t *testing.T) (*Service, *testutil.MemStore, *testutil.MemBlob, *cache.Store) {
	t.Helper()

	ms := testutil.NewMemStore()
	mb := testutil.NewMemBlob()
	cs := cache.NewStore()

	svc, err := New(Config{Store: ms, Blob: mb, Cache: cs, PageSize: 8})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc, ms, mb, cs
}

func seedProducts(ms *testutil.MemStore, n int) []store.Product {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ps := make([]store.Product, 0, n)
	for i := 0; i < n; i++ {
		p := store.Product{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("Product %02d", i),
			Category:  fmt.Sprintf("category-%d", i%3),
			Price:     float64(100 + i*10),
			Stock:     int64(5 + i),
			Photo:     fmt.Sprintf("memblob://photos/seed-%d.jpg", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		ps = append(ps, p)
	}
	ms.Seed(ps...)
	return ps
}

func TestNew_RequiresDependencies(t *testing.T) {
	ms := testutil.NewMemStore()
	mb := testutil.NewMemBlob()
	cs := cache.NewStore()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing store", cfg: Config{Blob: mb, Cache: cs}},
		{name: "missing blob", cfg: Config{Store: ms, Cache: cs}},
		{name: "missing cache", cfg: Config{Store: ms, Blob: mb}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New accepted incomplete config")
			}
		})
	}
}

func TestLatest_CacheAside(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	seeded := seedProducts(ms, 7)
	ctx := context.Background()

	products, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(products) != 5 {
		t.Fatalf("len = %d, want 5", len(products))
	}
	// Newest first.
	if products[0].ID != seeded[6].ID {
		t.Errorf("first product = %s, want newest %s", products[0].Name, seeded[6].Name)
	}
	if !cs.Has(cache.KeyLatestProducts) {
		t.Error("latest-products not populated after miss")
	}

	// Second read must be served from cache.
	before := ms.FindCalls
	again, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest (cached) failed: %v", err)
	}
	if ms.FindCalls != before {
		t.Errorf("cache hit still queried the store (%d -> %d calls)", before, ms.FindCalls)
	}
	if len(again) != len(products) || again[0].ID != products[0].ID {
		t.Error("cached result differs from original")
	}
}

func TestCategories_CacheAside(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	seedProducts(ms, 6)
	ctx := context.Background()

	categories, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	want := []string{"category-0", "category-1", "category-2"}
	if len(categories) != len(want) {
		t.Fatalf("categories = %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, categories[i], want[i])
		}
	}
	if !cs.Has(cache.KeyCategories) {
		t.Error("categories not populated after miss")
	}

	before := ms.DistinctCalls
	if _, err := svc.Categories(ctx); err != nil {
		t.Fatalf("Categories (cached) failed: %v", err)
	}
	if ms.DistinctCalls != before {
		t.Error("cache hit still ran a distinct query")
	}
}

func TestAdminProducts_CacheAside(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	seedProducts(ms, 4)
	ctx := context.Background()

	products, err := svc.AdminProducts(ctx)
	if err != nil {
		t.Fatalf("AdminProducts failed: %v", err)
	}
	if len(products) != 4 {
		t.Errorf("len = %d, want 4 (unfiltered)", len(products))
	}
	if !cs.Has(cache.KeyAllProducts) {
		t.Error("all-products not populated after miss")
	}

	before := ms.FindCalls
	if _, err := svc.AdminProducts(ctx); err != nil {
		t.Fatalf("AdminProducts (cached) failed: %v", err)
	}
	if ms.FindCalls != before {
		t.Error("cache hit still queried the store")
	}
}

func TestProduct_CacheAside(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	seeded := seedProducts(ms, 3)
	ctx := context.Background()

	p, err := svc.Product(ctx, seeded[1].ID)
	if err != nil {
		t.Fatalf("Product failed: %v", err)
	}
	if p.ID != seeded[1].ID {
		t.Errorf("got product %s, want %s", p.ID, seeded[1].ID)
	}
	if !cs.Has(cache.ProductKey(seeded[1].ID.String())) {
		t.Error("id-keyed entry not populated after miss")
	}

	before := ms.FindByIDCalls
	if _, err := svc.Product(ctx, seeded[1].ID); err != nil {
		t.Fatalf("Product (cached) failed: %v", err)
	}
	if ms.FindByIDCalls != before {
		t.Error("cache hit still queried the store")
	}
}

func TestProduct_NotFound(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := svc.Product(ctx, missing)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("store.ErrNotFound not in chain: %v", err)
	}

	// Absent results are not cached: a second lookup hits the store again.
	if cs.Has(cache.ProductKey(missing.String())) {
		t.Error("absent result was cached")
	}
	before := ms.FindByIDCalls
	_, _ = svc.Product(ctx, missing)
	if ms.FindByIDCalls != before+1 {
		t.Error("second lookup for missing id did not reach the store")
	}
}

func TestReadThrough_UndecodableEntryFailsOpen(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	seedProducts(ms, 2)
	ctx := context.Background()

	cs.Set(cache.KeyLatestProducts, []byte("{not json"))

	products, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed on corrupt entry: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("len = %d, want 2", len(products))
	}

	// The corrupt entry must have been overwritten with a decodable one.
	data, ok := cs.Get(cache.KeyLatestProducts)
	if !ok {
		t.Fatal("entry missing after refetch")
	}
	if string(data) == "{not json" {
		t.Error("corrupt entry was not overwritten")
	}
}

func TestReadThrough_StoreFailureLeavesCacheEmpty(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	ms.FindErr = errors.New("connection refused")
	ctx := context.Background()

	if _, err := svc.Latest(ctx); err == nil {
		t.Fatal("expected store failure")
	}
	if cs.Has(cache.KeyLatestProducts) {
		t.Error("cache populated despite store failure")
	}
}

func TestSearch(t *testing.T) {
	svc, ms, _, _ := newTestService(t)
	seedProducts(ms, 17)
	ctx := context.Background()

	res, err := svc.Search(ctx, query.Params{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Products) != 8 {
		t.Errorf("page length = %d, want 8", len(res.Products))
	}
	if res.Page != 1 {
		t.Errorf("page = %d, want 1", res.Page)
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3 (17 products, page size 8)", res.TotalPages)
	}
}

func TestSearch_LastPage(t *testing.T) {
	svc, ms, _, _ := newTestService(t)
	seedProducts(ms, 17)
	ctx := context.Background()

	res, err := svc.Search(ctx, query.Params{Page: "3"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Products) != 1 {
		t.Errorf("last page length = %d, want 1", len(res.Products))
	}
	if res.Page != 3 {
		t.Errorf("page = %d, want 3", res.Page)
	}
}

func TestSearch_Filtered(t *testing.T) {
	svc, ms, _, _ := newTestService(t)
	ms.Seed(
		store.Product{ID: uuid.New(), Name: "Linen Shirt", Category: "clothing", Price: 450},
		store.Product{ID: uuid.New(), Name: "Silk Shirt", Category: "clothing", Price: 900},
		store.Product{ID: uuid.New(), Name: "Sneakers", Category: "shoes", Price: 300},
	)
	ctx := context.Background()

	res, err := svc.Search(ctx, query.Params{Search: "shirt", Price: "500", Page: "0"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Products) != 1 {
		t.Fatalf("len = %d, want 1 (only the linen shirt is under 500)", len(res.Products))
	}
	if res.Products[0].Name != "Linen Shirt" {
		t.Errorf("got %q", res.Products[0].Name)
	}
	if res.Page != 1 {
		t.Errorf("page 0 not normalized: page = %d", res.Page)
	}
	if res.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", res.TotalPages)
	}
}

func TestSearch_SortedByPrice(t *testing.T) {
	svc, ms, _, _ := newTestService(t)
	ms.Seed(
		store.Product{ID: uuid.New(), Name: "A", Category: "c", Price: 300},
		store.Product{ID: uuid.New(), Name: "B", Category: "c", Price: 100},
		store.Product{ID: uuid.New(), Name: "C", Category: "c", Price: 200},
	)
	ctx := context.Background()

	res, err := svc.Search(ctx, query.Params{Sort: "asc"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	var prev float64
	for i, p := range res.Products {
		if p.Price < prev {
			t.Fatalf("products[%d] out of order: %v", i, res.Products)
		}
		prev = p.Price
	}
}

func TestSearch_NeverCached(t *testing.T) {
	svc, ms, _, cs := newTestService(t)
	seedProducts(ms, 3)
	ctx := context.Background()

	if _, err := svc.Search(ctx, query.Params{}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if cs.Len() != 0 {
		t.Errorf("search populated the cache: %d entries", cs.Len())
	}

	// Every search reaches the store (two queries per call).
	before := ms.FindCalls
	if _, err := svc.Search(ctx, query.Params{}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if ms.FindCalls != before+2 {
		t.Errorf("FindCalls went %d -> %d, want +2", before, ms.FindCalls)
	}
}
