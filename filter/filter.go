// Package filter applies the client-visible predicate/sort pipeline to an
// already-fetched window of products. It is pure: no I/O, the input slice
// is never mutated, and equal inputs always produce identical output.
package filter

import (
	"sort"

	"agrimart/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Options mirrors the UI filter state. A zero Options passes everything
// through in input order.
type Options struct {
	Categories []string    `json:"categories,omitempty"`
	Organic    bool        `json:"organic,omitempty"`
	InStock    bool        `json:"inStock,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	SortBy     string      `json:"sortBy,omitempty"`
}

// Apply runs the fixed pipeline: categories, organic, in-stock, price
// range, then sort. The result is always a fresh slice whose elements are
// a subsequence of the input; with no sort key the input order is kept.
func Apply(items []models.Product, opts Options) []models.Product {
	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if !matchesCategory(p, opts.Categories) {
			continue
		}
		if opts.Organic && !p.Organic {
			continue
		}
		if opts.InStock && !p.InStock {
			continue
		}
		if pr := opts.PriceRange; pr != nil && (p.Price < pr.Min || p.Price > pr.Max) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, opts.SortBy)
	return out
}

func matchesCategory(p models.Product, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if p.Category == c {
			return true
		}
	}
	return false
}

func sortProducts(items []models.Product, sortBy string) {
	if sortBy == "" {
		return
	}

	// Stable sort keeps ties in input order, so repeated runs agree.
	switch sortBy {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price < items[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price > items[j].Price
		})
	case SortNameAsc:
		cl := collate.New(language.English)
		sort.SliceStable(items, func(i, j int) bool {
			return cl.CompareString(items[i].Name, items[j].Name) < 0
		})
	case SortNameDesc:
		cl := collate.New(language.English)
		sort.SliceStable(items, func(i, j int) bool {
			return cl.CompareString(items[i].Name, items[j].Name) > 0
		})
	}
	// Unknown keys are ignored rather than erroring; the UI only sends
	// the four known values.
}
