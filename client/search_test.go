package client

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"agrimart/catalog"
	"agrimart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applied struct {
	mu    sync.Mutex
	terms []string
	pages []catalog.Page
}

func (a *applied) apply(term string, page catalog.Page) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.terms = append(a.terms, term)
	a.pages = append(a.pages, page)
}

func (a *applied) snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.terms))
	copy(out, a.terms)
	return out
}

func pageFor(term string) catalog.Page {
	return catalog.Page{
		Products: []models.Product{{ID: "p-" + term, Name: term}},
		Total:    1,
	}
}

func TestSearcherDebouncesRapidTyping(t *testing.T) {
	var fetches int64
	fetch := func(_ context.Context, term string) (catalog.Page, error) {
		atomic.AddInt64(&fetches, 1)
		return pageFor(term), nil
	}
	got := &applied{}
	s := NewSearcher(30*time.Millisecond, fetch, got.apply)

	for _, term := range []string{"t", "to", "tom", "toma", "tomato"} {
		s.SetTerm(term)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(got.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"tomato"}, got.snapshot())
	assert.Equal(t, int64(1), atomic.LoadInt64(&fetches))
}

func TestSearcherSlowResponseCannotOverwriteNewer(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(_ context.Context, term string) (catalog.Page, error) {
		if term == "slow" {
			close(started)
			<-release
		}
		return pageFor(term), nil
	}
	got := &applied{}
	s := NewSearcher(time.Millisecond, fetch, got.apply)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Flush("slow")
	}()
	<-started

	s.Flush("fast")
	close(release)
	wg.Wait()

	// Only the newer term landed; the stale response was discarded.
	assert.Equal(t, []string{"fast"}, got.snapshot())
}

func TestSearcherDelayedApplyCannotLandAfterNewer(t *testing.T) {
	fetch := func(_ context.Context, term string) (catalog.Page, error) {
		return pageFor(term), nil
	}

	got := &applied{}
	entered := make(chan struct{})
	release := make(chan struct{})
	apply := func(term string, page catalog.Page) {
		if term == "old" {
			close(entered)
			<-release
		}
		got.apply(term, page)
	}
	s := NewSearcher(time.Millisecond, fetch, apply)

	// The old generation's result stalls mid-application while a newer
	// generation fetches and completes.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Flush("old")
	}()
	<-entered
	go func() {
		defer wg.Done()
		s.Flush("new")
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	// Whatever interleaving occurred, the newest result is the one left
	// applied.
	terms := got.snapshot()
	require.NotEmpty(t, terms)
	assert.Equal(t, "new", terms[len(terms)-1])
}

func TestSearcherFlushFiresImmediately(t *testing.T) {
	fetch := func(_ context.Context, term string) (catalog.Page, error) {
		return pageFor(term), nil
	}
	got := &applied{}
	s := NewSearcher(time.Hour, fetch, got.apply)

	s.SetTerm("pend")
	s.Flush("tomato")

	assert.Equal(t, []string{"tomato"}, got.snapshot())

	// The superseded debounce never fires.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"tomato"}, got.snapshot())
}

func TestSearcherFetchErrorDropsResult(t *testing.T) {
	fetch := func(_ context.Context, term string) (catalog.Page, error) {
		return catalog.Page{}, context.DeadlineExceeded
	}
	got := &applied{}
	s := NewSearcher(time.Millisecond, fetch, got.apply)

	s.Flush("tomato")
	assert.Empty(t, got.snapshot())
}
