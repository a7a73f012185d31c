package prices

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Match is one symbol search hit.
type Match struct {
	Ticker   string
	Name     string
	Exchange string
}

// SearchFunc resolves a query into symbol matches.
type SearchFunc func(ctx context.Context, query string) ([]Match, error)

// SearchResult is delivered to the searcher's callback. Err is set when
// the lookup failed; Matches is nil in that case.
type SearchResult struct {
	Query   string
	Matches []Match
	Err     error
}

// Searcher debounces keystroke-level queries before hitting the symbol
// lookup. Each fired lookup carries a sequence number; a result is
// delivered only if no newer lookup has fired since, so out-of-order
// responses for old queries are dropped rather than shown.
type Searcher struct {
	fn       SearchFunc
	debounce time.Duration
	deliver  func(SearchResult)

	seq atomic.Uint64

	mu    sync.Mutex
	timer *time.Timer
}

// NewSearcher creates a debounced searcher. deliver is invoked from the
// lookup goroutine for every result that is still current.
func NewSearcher(fn SearchFunc, debounce time.Duration, deliver func(SearchResult)) *Searcher {
	return &Searcher{
		fn:       fn,
		debounce: debounce,
		deliver:  deliver,
	}
}

// Query schedules a lookup for q after the debounce window. A newer
// call before the window elapses restarts it, so only the final query
// of a burst reaches the lookup function.
func (s *Searcher) Query(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fire(q)
	})
}

// Cancel drops any pending lookup.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// Invalidate in-flight lookups as well.
	s.seq.Add(1)
}

func (s *Searcher) fire(q string) {
	seq := s.seq.Add(1)

	matches, err := s.fn(context.Background(), q)

	// Deliver only when this is still the latest issued lookup; a
	// result for an old query is dropped even if it arrives first.
	if seq != s.seq.Load() {
		return
	}

	s.deliver(SearchResult{Query: q, Matches: matches, Err: err})
}
