// Package analytics computes aggregate statistics over a ledger snapshot.
//
// Every function here is pure: it takes the full trade sequence (plus an
// externally supplied live-price map where relevant) and recomputes from
// scratch. Input size is a single user's trade history, so there is no
// incremental or cached state on purpose.
package analytics

import (
	"sort"

	"swing-journal/internal/models"
)

// TotalRealizedPnL sums stored pnl over closed trades. Zero for an empty
// or all-open ledger.
func TotalRealizedPnL(trades []models.Trade) float64 {
	var total float64
	for _, t := range trades {
		if t.Status == models.StatusClosed && t.PnL != nil {
			total += *t.PnL
		}
	}
	return total
}

// WinRate returns the percentage of closed trades flagged as wins.
// Defined as 0 when there are no closed trades.
func WinRate(trades []models.Trade) float64 {
	var closed, wins int
	for _, t := range trades {
		if t.Status != models.StatusClosed {
			continue
		}
		closed++
		if t.IsWin != nil && *t.IsWin {
			wins++
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(wins) / float64(closed) * 100
}

// UnrealizedPnL sums (livePrice - entryPrice) * shares over open trades,
// skipping any trade whose ticker has no known live price.
func UnrealizedPnL(trades []models.Trade, prices map[string]float64) float64 {
	var total float64
	for _, t := range trades {
		if t.Status == models.StatusClosed {
			continue
		}
		price, ok := prices[t.Ticker]
		if !ok {
			continue
		}
		total += models.ComputePnL(t.EntryPrice, price, t.Shares)
	}
	return total
}

// EquityPoint is one step of the cumulative pnl curve, with the per-trade
// pnl retained for bar display.
type EquityPoint struct {
	TradeID    string
	Ticker     string
	Date       string
	PnL        float64
	Cumulative float64
}

// EquityCurve returns closed trades sorted ascending by entry date, each
// point carrying the running cumulative pnl. The sort is stable so trades
// sharing a date keep their original relative order.
func EquityCurve(trades []models.Trade) []EquityPoint {
	var closed []models.Trade
	for _, t := range trades {
		if t.Status == models.StatusClosed && t.PnL != nil {
			closed = append(closed, t)
		}
	}

	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].EntryDate.Before(closed[j].EntryDate)
	})

	points := make([]EquityPoint, 0, len(closed))
	var running float64
	for _, t := range closed {
		running += *t.PnL
		points = append(points, EquityPoint{
			TradeID:    t.ID,
			Ticker:     t.Ticker,
			Date:       t.EntryDate.Format("2006-01-02"),
			PnL:        *t.PnL,
			Cumulative: running,
		})
	}
	return points
}
