package broker

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "swing-journal/internal/errors"
	"swing-journal/internal/logging"
	"swing-journal/internal/models"
)

// ImportResult reports the outcome of a tradebook import.
type ImportResult struct {
	Trades  []models.Trade
	Skipped int
}

// fill is one executed leg from the broker tradebook.
type fill struct {
	ticker string
	side   string
	qty    float64
	price  float64
	at     time.Time
}

// ImportTrades fetches the day's tradebook and pairs buy and sell fills
// per ticker, first in first out, into journal entries. Matched pairs
// come back closed with their P/L frozen; leftover buys come back open.
// Malformed fills are skipped with a logged warning.
func (b *Broker) ImportTrades(ctx context.Context, logger zerolog.Logger) (ImportResult, error) {
	if !b.IsAuthenticated() {
		return ImportResult{}, apperrors.ErrNotAuthenticated
	}

	book, err := b.client.GetTrades()
	if err != nil {
		return ImportResult{}, apperrors.NewBrokerError("tradebook", "failed to fetch tradebook", err)
	}

	var result ImportResult
	fills := make([]fill, 0, len(book))
	for i, t := range book {
		side := strings.ToUpper(t.TransactionType)
		if t.TradingSymbol == "" || t.Quantity <= 0 || t.AveragePrice <= 0 ||
			(side != "BUY" && side != "SELL") {
			result.Skipped++
			logging.LogSkippedRow(logger, "broker", i+1, "malformed fill")
			continue
		}
		fills = append(fills, fill{
			ticker: t.TradingSymbol,
			side:   side,
			qty:    t.Quantity,
			price:  t.AveragePrice,
			at:     t.FillTimestamp.Time,
		})
	}

	sort.SliceStable(fills, func(i, j int) bool { return fills[i].at.Before(fills[j].at) })

	trades, unmatched := pairFills(fills, logger)
	result.Trades = trades
	result.Skipped += unmatched
	logging.LogImport(logger, "broker", len(result.Trades), result.Skipped)
	return result, nil
}

// pairFills matches sell fills against earlier buy fills per ticker.
// A sell consumes open buy quantity FIFO; partial matches split legs.
// Sell quantity with no matching buy is skipped and logged, and the
// count of such fills is returned alongside the trades.
func pairFills(fills []fill, logger zerolog.Logger) ([]models.Trade, int) {
	open := make(map[string][]fill)
	var trades []models.Trade
	unmatched := 0

	for i, f := range fills {
		if f.side == "BUY" {
			open[f.ticker] = append(open[f.ticker], f)
			continue
		}

		remaining := f.qty
		queue := open[f.ticker]
		for remaining > 0 && len(queue) > 0 {
			buy := &queue[0]
			matched := buy.qty
			if remaining < matched {
				matched = remaining
			}

			exitDate := f.at
			trade := models.Trade{
				ID:         uuid.NewString(),
				Ticker:     f.ticker,
				EntryDate:  buy.at,
				EntryPrice: buy.price,
				Shares:     matched,
				Strategy:   "Broker Import",
				Status:     models.StatusOpen,
			}
			trade.Close(exitDate, f.price)
			trades = append(trades, trade)

			buy.qty -= matched
			remaining -= matched
			if buy.qty <= 0 {
				queue = queue[1:]
			}
		}
		open[f.ticker] = queue

		if remaining > 0 {
			unmatched++
			logging.LogSkippedRow(logger, "broker", i+1, "sell without matching buy")
		}
	}

	for _, queue := range open {
		for _, buy := range queue {
			trades = append(trades, models.Trade{
				ID:         uuid.NewString(),
				Ticker:     buy.ticker,
				EntryDate:  buy.at,
				EntryPrice: buy.price,
				Shares:     buy.qty,
				Strategy:   "Broker Import",
				Status:     models.StatusOpen,
			})
		}
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].EntryDate.Before(trades[j].EntryDate)
	})
	return trades, unmatched
}
