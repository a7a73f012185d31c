// Package prices keeps live quotes fresh for the open side of the
// ledger.
//
// Both the interval poller and the debounced symbol search stamp every
// outbound request with a monotonically increasing sequence number and
// apply only responses whose sequence is still the newest, so a slow
// response can never overwrite a fresher one.
package prices

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"swing-journal/internal/logging"
)

// Source provides last traded prices for a set of tickers.
type Source interface {
	LTP(ctx context.Context, tickers []string) (map[string]float64, error)
}

// Poller refreshes quotes for the tickers of all open trades on a
// fixed interval. A fetch failure degrades gracefully: the previous
// snapshot stays in place and the failure is logged.
type Poller struct {
	source    Source
	interval  time.Duration
	tickersFn func() []string
	logger    zerolog.Logger

	seq atomic.Uint64

	mu     sync.RWMutex
	latest map[string]float64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates a poller. tickersFn is called before each fetch to
// get the current set of tickers to quote.
func NewPoller(source Source, interval time.Duration, tickersFn func() []string, logger zerolog.Logger) *Poller {
	return &Poller{
		source:    source,
		interval:  interval,
		tickersFn: tickersFn,
		logger:    logger,
		latest:    make(map[string]float64),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start polls immediately and then on every interval tick until the
// context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		defer close(p.done)

		p.pollOnce(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.pollOnce(ctx)
			}
		}
	}()
}

// Stop halts polling and waits for the loop to exit.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

// Snapshot returns a copy of the latest known prices.
func (p *Poller) Snapshot() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]float64, len(p.latest))
	for k, v := range p.latest {
		out[k] = v
	}
	return out
}

func (p *Poller) pollOnce(ctx context.Context) {
	tickers := p.tickersFn()
	if len(tickers) == 0 {
		return
	}

	seq := p.seq.Add(1)
	prices, err := p.source.LTP(ctx, tickers)
	if err != nil {
		logging.LogRemoteDegraded(p.logger, "quotes", err)
		return
	}
	p.apply(seq, prices)
}

// apply installs a response only when it answers the latest issued
// request. A response for an older request is dropped even if nothing
// newer has landed yet.
func (p *Poller) apply(seq uint64, prices map[string]float64) {
	if latest := p.seq.Load(); seq != latest {
		p.logger.Debug().Uint64("seq", seq).Uint64("latest", latest).
			Msg("dropping stale quote response")
		return
	}

	p.mu.Lock()
	for k, v := range prices {
		p.latest[k] = v
	}
	p.mu.Unlock()
}
