// Package ledger holds the authoritative ordered collection of trades.
package ledger

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "swing-journal/internal/errors"
	"swing-journal/internal/logging"
	"swing-journal/internal/models"
)

// Port is the persistence boundary for the ledger. Every mutation writes
// the full trade sequence through it before returning, so the persisted
// snapshot always mirrors memory.
type Port interface {
	LoadTrades() ([]models.Trade, error)
	SaveTrades(trades []models.Trade) error
}

// Ledger owns the trade sequence. Adapters and views only ever receive
// copies; all mutation goes through the methods below.
type Ledger struct {
	mu     sync.RWMutex
	port   Port
	logger zerolog.Logger
	trades []models.Trade
}

// New creates a ledger backed by the given port, loading the persisted
// sequence once.
func New(port Port, logger zerolog.Logger) (*Ledger, error) {
	trades, err := port.LoadTrades()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load trades")
	}
	return &Ledger{
		port:   port,
		logger: logger,
		trades: trades,
	}, nil
}

// Trades returns a snapshot copy of the full sequence, newest first.
func (l *Ledger) Trades() []models.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Trade, len(l.trades))
	for i, t := range l.trades {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the trade with the given id.
func (l *Ledger) Get(id string) (models.Trade, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, t := range l.trades {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return models.Trade{}, apperrors.ErrTradeNotFound
}

// Len returns the number of trades in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// Add validates the trade and inserts it at the head of the sequence.
func (l *Ledger) Add(t models.Trade) error {
	if err := validate(&t); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.Trade, 0, len(l.trades)+1)
	next = append(next, t.Clone())
	next = append(next, l.trades...)

	if err := l.persist(next); err != nil {
		return err
	}
	logging.LogTradeSaved(l.logger, "add", t.ID, t.Ticker, len(next))
	return nil
}

// Update replaces the trade with matching id in place, preserving its
// position in the sequence.
func (l *Ledger) Update(t models.Trade) error {
	if err := validate(&t); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(t.ID)
	if idx < 0 {
		return apperrors.ErrTradeNotFound
	}

	next := l.snapshot()
	next[idx] = t.Clone()

	if err := l.persist(next); err != nil {
		return err
	}
	logging.LogTradeSaved(l.logger, "update", t.ID, t.Ticker, len(next))
	return nil
}

// Remove deletes the trade with matching id.
// A missing id is always reported as ErrTradeNotFound.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return apperrors.ErrTradeNotFound
	}

	snap := l.snapshot()
	next := make([]models.Trade, 0, len(snap)-1)
	next = append(next, snap[:idx]...)
	next = append(next, snap[idx+1:]...)

	if err := l.persist(next); err != nil {
		return err
	}
	logging.LogTradeSaved(l.logger, "remove", id, "", len(next))
	return nil
}

// ReplaceAll atomically discards the current sequence and substitutes the
// given one. Used exclusively by bulk import adapters: either the full set
// replaces the ledger, or the operation fails and the ledger is untouched.
func (l *Ledger) ReplaceAll(trades []models.Trade) error {
	next := make([]models.Trade, len(trades))
	for i, t := range trades {
		if err := validate(&t); err != nil {
			return err
		}
		next[i] = t.Clone()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.persist(next); err != nil {
		return err
	}
	logging.LogTradeSaved(l.logger, "replace_all", "", "", len(next))
	return nil
}

// CloseTrade performs the one-way open to closed transition, computing
// and freezing pnl and the win flag at this instant. Later edits to other
// fields will not alter them.
func (l *Ledger) CloseTrade(id string, exitDate time.Time, exitPrice float64) (models.Trade, error) {
	if exitPrice < 0 {
		return models.Trade{}, apperrors.NewValidationError("exitPrice", exitPrice, "must not be negative")
	}
	if exitDate.IsZero() {
		return models.Trade{}, apperrors.NewValidationError("exitDate", exitDate, "must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return models.Trade{}, apperrors.ErrTradeNotFound
	}
	if l.trades[idx].Status == models.StatusClosed {
		return models.Trade{}, apperrors.ErrAlreadyClosed
	}

	next := l.snapshot()
	closed := next[idx].Clone()
	closed.Close(exitDate, exitPrice)
	next[idx] = closed

	if err := l.persist(next); err != nil {
		return models.Trade{}, err
	}
	logging.LogTradeSaved(l.logger, "close", id, closed.Ticker, len(next))
	return closed.Clone(), nil
}

// persist writes the candidate sequence through the port and only then
// swaps it into memory, so a failed save leaves the ledger untouched.
// Callers must hold the write lock.
func (l *Ledger) persist(next []models.Trade) error {
	if err := l.port.SaveTrades(next); err != nil {
		return apperrors.Wrap(err, "failed to persist trades")
	}
	l.trades = next
	return nil
}

func (l *Ledger) indexOf(id string) int {
	for i, t := range l.trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) snapshot() []models.Trade {
	out := make([]models.Trade, len(l.trades))
	for i, t := range l.trades {
		out[i] = t.Clone()
	}
	return out
}

// validate enforces required fields and the closed-state invariant:
// a closed trade always carries exit fields plus pnl and the win flag,
// an open trade carries none of them.
func validate(t *models.Trade) error {
	if strings.TrimSpace(t.ID) == "" {
		return apperrors.NewValidationError("id", t.ID, "must not be empty")
	}
	if strings.TrimSpace(t.Ticker) == "" {
		return apperrors.NewValidationError("ticker", t.Ticker, "must not be empty")
	}
	if t.EntryDate.IsZero() {
		return apperrors.NewValidationError("entryDate", t.EntryDate, "must not be empty")
	}
	if t.EntryPrice < 0 {
		return apperrors.NewValidationError("entryPrice", t.EntryPrice, "must not be negative")
	}
	if t.Mindset != "" && !t.Mindset.Valid() {
		return apperrors.NewValidationError("mindset", t.Mindset, "unknown mindset tag")
	}

	switch t.Status {
	case models.StatusClosed:
		if t.ExitDate == nil || t.ExitPrice == nil || t.PnL == nil || t.IsWin == nil {
			return apperrors.NewValidationError("status", t.Status, "closed trade must carry exit date, exit price, pnl and win flag")
		}
	case models.StatusOpen, "":
		if t.ExitDate != nil || t.ExitPrice != nil || t.PnL != nil || t.IsWin != nil {
			return apperrors.NewValidationError("status", t.Status, "open trade must not carry exit or pnl fields")
		}
		t.Status = models.StatusOpen
	default:
		return apperrors.NewValidationError("status", t.Status, "must be open or closed")
	}
	return nil
}
