package client

import (
	"context"
	"sync"
	"time"

	"agrimart/catalog"
)

// FetchFunc loads a product page for a search term.
type FetchFunc func(ctx context.Context, term string) (catalog.Page, error)

// ApplyFunc receives the result for the term that produced it.
type ApplyFunc func(term string, page catalog.Page)

// Searcher debounces keystrokes and guards against out-of-order
// responses: each scheduled fetch gets a generation number, and a result
// is applied only while its generation is still the latest and nothing
// newer has been applied. A slow response for an old term can never
// overwrite a newer one.
type Searcher struct {
	delay time.Duration
	fetch FetchFunc
	apply ApplyFunc

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64

	// applyMu serializes result application so the staleness check and
	// the apply call happen as one step. applied is guarded by it.
	applyMu sync.Mutex
	applied uint64
}

func NewSearcher(delay time.Duration, fetch FetchFunc, apply ApplyFunc) *Searcher {
	return &Searcher{delay: delay, fetch: fetch, apply: apply}
}

// SetTerm records a new search term, restarting the debounce window.
func (s *Searcher) SetTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(gen, term)
	})
}

// Flush fires the pending fetch immediately. Used when the user submits
// instead of pausing.
func (s *Searcher) Flush(term string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.run(gen, term)
}

func (s *Searcher) run(gen uint64, term string) {
	if s.stale(gen) {
		return
	}

	page, err := s.fetch(context.Background(), term)
	if err != nil {
		return // superseded or failed; the next keystroke retries
	}

	s.applyMu.Lock()
	defer s.applyMu.Unlock()
	if s.stale(gen) || gen <= s.applied {
		return
	}
	s.applied = gen
	s.apply(term, page)
}

func (s *Searcher) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}
