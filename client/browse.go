package client

import (
	"sync"

	"agrimart/catalog"
	"agrimart/filter"
	"agrimart/models"
)

// Browser holds the current server page and the locally applied filter
// state. Filtering and sorting never refetch: they rerun over the page
// already in hand, so toggling a checkbox is instant.
type Browser struct {
	mu   sync.Mutex
	page catalog.Page
	opts filter.Options
}

func NewBrowser() *Browser {
	return &Browser{}
}

// SetPage replaces the fetched window, keeping the filter state. Wired as
// the Searcher's apply target.
func (b *Browser) SetPage(_ string, page catalog.Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = page
}

// SetOptions replaces the filter state.
func (b *Browser) SetOptions(opts filter.Options) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opts = opts
}

// Visible returns the filtered, sorted view of the current page.
func (b *Browser) Visible() []models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return filter.Apply(b.page.Products, b.opts)
}

// Total is the server-side match count for the current search, before
// local filtering.
func (b *Browser) Total() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page.Total
}
