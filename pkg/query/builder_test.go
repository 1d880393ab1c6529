package query

import (
	"testing"

	"github.com/storebase/catalog/pkg/store"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		pageSize int

		wantFilter store.Filter
		wantPrice  float64 // compared when wantHasPrice
		wantHas    bool
		wantSort   store.Sort
		wantPage   Page
	}{
		{
			name:     "all parameters absent yields empty filter and defaults",
			params:   Params{},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:      "search and price with page zero",
			params:    Params{Search: "shirt", Price: "500", Page: "0"},
			pageSize:  8,
			wantHas:   true,
			wantPrice: 500,
			wantSort:  store.SortNone,
			wantPage:  Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "category exact match",
			params:   Params{Category: "shoes"},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "second page skips one page worth",
			params:   Params{Page: "2"},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 2, Skip: 8, Limit: 8},
		},
		{
			name:     "negative page normalized to one",
			params:   Params{Page: "-3"},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "malformed page normalized to one",
			params:   Params{Page: "two"},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "malformed price omits the predicate",
			params:   Params{Price: "cheap"},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "ascending price sort",
			params:   Params{Sort: "asc"},
			pageSize: 8,
			wantSort: store.SortPriceAsc,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "descending price sort",
			params:   Params{Sort: "desc"},
			pageSize: 8,
			wantSort: store.SortPriceDesc,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "unknown sort value leaves default order",
			params:   Params{Sort: "sideways"},
			pageSize: 8,
			wantSort: store.SortNone,
			wantPage: Page{Number: 1, Skip: 0, Limit: 8},
		},
		{
			name:     "non-positive page size falls back to default",
			params:   Params{Page: "3"},
			pageSize: 0,
			wantSort: store.SortNone,
			wantPage: Page{Number: 3, Skip: 16, Limit: 8},
		},
		{
			name:     "custom page size",
			params:   Params{Page: "2"},
			pageSize: 20,
			wantSort: store.SortNone,
			wantPage: Page{Number: 2, Skip: 20, Limit: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, sort, page := Build(tt.params, tt.pageSize)

			if filter.Search != tt.params.Search {
				t.Errorf("Search = %q, want %q", filter.Search, tt.params.Search)
			}
			if filter.Category != tt.params.Category {
				t.Errorf("Category = %q, want %q", filter.Category, tt.params.Category)
			}
			if tt.wantHas {
				if filter.MaxPrice == nil {
					t.Error("MaxPrice predicate missing")
				} else if *filter.MaxPrice != tt.wantPrice {
					t.Errorf("MaxPrice = %v, want %v", *filter.MaxPrice, tt.wantPrice)
				}
			} else if filter.MaxPrice != nil {
				t.Errorf("unexpected MaxPrice predicate %v", *filter.MaxPrice)
			}
			if sort != tt.wantSort {
				t.Errorf("sort = %q, want %q", sort, tt.wantSort)
			}
			if page != tt.wantPage {
				t.Errorf("page = %+v, want %+v", page, tt.wantPage)
			}
		})
	}
}

// An empty parameter set must never reject documents.
func TestBuild_EmptyFilterMatchesEverything(t *testing.T) {
	filter, _, _ := Build(Params{}, 8)
	if !filter.IsZero() {
		t.Errorf("Build(empty) produced predicates: %+v", filter)
	}
}
