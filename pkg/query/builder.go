// Package query builds normalized store queries from optional search
// parameters.
//
// Every input is optional and arrives as a raw string, exactly as an HTTP
// query layer would hand it over. Malformed numeric inputs fall back to
// defaults instead of failing, and an absent parameter never emits a
// predicate, so the builder cannot produce a query that rejects everything
// when nothing was asked for.
package query

import (
	"strconv"

	"github.com/storebase/catalog/pkg/store"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 8

// Params are the raw, optional search parameters of a product search.
type Params struct {
	// Search is a free-text name search (case-insensitive substring).
	Search string

	// Price is the maximum price as decimal text.
	Price string

	// Category is an exact category match.
	Category string

	// Sort is "asc" or "desc" for price ordering; anything else leaves the
	// store's default order.
	Sort string

	// Page is the 1-based page number as text.
	Page string
}

// Page carries the normalized paging of a search.
type Page struct {
	// Number is the normalized 1-based page number.
	Number int

	// Skip is the number of documents to skip: (Number-1) * Limit.
	Skip int64

	// Limit is the page size.
	Limit int64
}

// Build converts params into a store filter, a sort instruction, and paging
// metadata. pageSize <= 0 falls back to DefaultPageSize.
func Build(p Params, pageSize int) (store.Filter, store.Sort, Page) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var f store.Filter
	if p.Search != "" {
		f.Search = p.Search
	}
	if p.Price != "" {
		if max, err := strconv.ParseFloat(p.Price, 64); err == nil {
			f.MaxPrice = &max
		}
	}
	if p.Category != "" {
		f.Category = p.Category
	}

	var sort store.Sort
	switch p.Sort {
	case "asc":
		sort = store.SortPriceAsc
	case "desc":
		sort = store.SortPriceDesc
	default:
		sort = store.SortNone
	}

	page := pageNumber(p.Page)
	return f, sort, Page{
		Number: page,
		Skip:   int64(page-1) * int64(pageSize),
		Limit:  int64(pageSize),
	}
}

// pageNumber normalizes the raw page parameter: absent, malformed, or
// non-positive values all mean page 1.
func pageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
