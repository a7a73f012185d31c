package broker

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"swing-journal/internal/models"
)

func fillAt(ticker, side string, qty, price float64, minute int) fill {
	return fill{
		ticker: ticker,
		side:   side,
		qty:    qty,
		price:  price,
		at:     time.Date(2026, 8, 20, 9, minute, 0, 0, time.UTC),
	}
}

func TestPairFillsMatchesBuyAndSell(t *testing.T) {
	fills := []fill{
		fillAt("AAPL", "BUY", 10, 100, 15),
		fillAt("AAPL", "SELL", 10, 110, 45),
	}

	trades, _ := pairFills(fills, zerolog.Nop())
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}

	got := trades[0]
	if got.Status != models.StatusClosed {
		t.Fatalf("status = %q, want closed", got.Status)
	}
	if got.EntryPrice != 100 || got.Shares != 10 {
		t.Errorf("entry = %v x %v", got.EntryPrice, got.Shares)
	}
	if got.PnL == nil || *got.PnL != models.ComputePnL(100, 110, 10) {
		t.Errorf("pnl = %v, want 100", got.PnL)
	}
	if got.IsWin == nil || !*got.IsWin {
		t.Errorf("win flag wrong")
	}
}

func TestPairFillsFIFO(t *testing.T) {
	fills := []fill{
		fillAt("AAPL", "BUY", 5, 100, 10),
		fillAt("AAPL", "BUY", 5, 105, 20),
		fillAt("AAPL", "SELL", 5, 110, 30),
	}

	trades, _ := pairFills(fills, zerolog.Nop())
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want matched pair + leftover buy", len(trades))
	}

	var closed, open *models.Trade
	for i := range trades {
		if trades[i].Status == models.StatusClosed {
			closed = &trades[i]
		} else {
			open = &trades[i]
		}
	}
	if closed == nil || open == nil {
		t.Fatalf("expected one closed and one open, got %+v", trades)
	}

	// The sell must consume the earliest buy.
	if closed.EntryPrice != 100 {
		t.Errorf("closed entry = %v, want the first buy at 100", closed.EntryPrice)
	}
	if open.EntryPrice != 105 || open.Shares != 5 {
		t.Errorf("leftover buy = %v x %v, want 105 x 5", open.EntryPrice, open.Shares)
	}
}

func TestPairFillsPartialMatchSplits(t *testing.T) {
	fills := []fill{
		fillAt("TSLA", "BUY", 10, 240, 10),
		fillAt("TSLA", "SELL", 4, 250, 30),
	}

	trades, _ := pairFills(fills, zerolog.Nop())
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want closed slice + open remainder", len(trades))
	}

	var closed, open *models.Trade
	for i := range trades {
		if trades[i].Status == models.StatusClosed {
			closed = &trades[i]
		} else {
			open = &trades[i]
		}
	}
	if closed == nil || closed.Shares != 4 {
		t.Fatalf("closed slice = %+v, want 4 shares", closed)
	}
	if closed.PnL == nil || *closed.PnL != models.ComputePnL(240, 250, 4) {
		t.Errorf("pnl = %v, want 40", closed.PnL)
	}
	if open == nil || open.Shares != 6 {
		t.Errorf("remainder = %+v, want 6 open shares", open)
	}
}

func TestPairFillsSeparatesTickers(t *testing.T) {
	fills := []fill{
		fillAt("AAPL", "BUY", 10, 100, 10),
		fillAt("TSLA", "SELL", 10, 240, 20), // no matching buy for TSLA
	}

	trades, unmatched := pairFills(fills, zerolog.Nop())
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want only the open AAPL buy", len(trades))
	}
	if trades[0].Ticker != "AAPL" || trades[0].Status != models.StatusOpen {
		t.Errorf("trade = %+v", trades[0])
	}
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want the orphan TSLA sell counted", unmatched)
	}
}

func TestPairFillsCountsUnmatchedSellRemainder(t *testing.T) {
	fills := []fill{
		fillAt("AAPL", "BUY", 4, 100, 10),
		fillAt("AAPL", "SELL", 10, 110, 20), // only 4 of 10 can match
	}

	trades, unmatched := pairFills(fills, zerolog.Nop())
	if len(trades) != 1 || trades[0].Status != models.StatusClosed || trades[0].Shares != 4 {
		t.Fatalf("trades = %+v, want one closed 4-share pair", trades)
	}
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want the oversized sell counted", unmatched)
	}
}

func TestPairFillsEmpty(t *testing.T) {
	trades, unmatched := pairFills(nil, zerolog.Nop())
	if len(trades) != 0 || unmatched != 0 {
		t.Errorf("pairFills(nil) = %+v, %d", trades, unmatched)
	}
}

func TestQualifySymbol(t *testing.T) {
	if got := qualifySymbol("reliance"); got != "NSE:RELIANCE" {
		t.Errorf("qualifySymbol = %q", got)
	}
	if got := qualifySymbol("BSE:SENSEX"); got != "BSE:SENSEX" {
		t.Errorf("exchange-qualified symbol rewritten: %q", got)
	}
}
