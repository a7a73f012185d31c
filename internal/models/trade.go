// Package models defines the core journal records.
package models

import (
	"strings"
	"time"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

// Mindset is the emotional tag recorded when a trade is planned.
type Mindset string

const (
	MindsetDisciplined Mindset = "Disciplined"
	MindsetFOMO        Mindset = "FOMO"
	MindsetAnxious     Mindset = "Anxious"
	MindsetConfident   Mindset = "Confident"
	MindsetNeutral     Mindset = "Neutral"
)

// Mindsets lists every valid mindset tag.
var Mindsets = []Mindset{
	MindsetDisciplined,
	MindsetFOMO,
	MindsetAnxious,
	MindsetConfident,
	MindsetNeutral,
}

// Valid reports whether m is one of the known mindset tags.
func (m Mindset) Valid() bool {
	for _, known := range Mindsets {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMindset matches a tag case-insensitively.
func ParseMindset(s string) (Mindset, bool) {
	for _, known := range Mindsets {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Trade represents one logged position, open or closed.
//
// PnL and IsWin are computed once when the trade is closed and stored;
// they are never recomputed from entry/exit prices afterwards, so edits
// to other fields cannot perturb them.
type Trade struct {
	ID         string
	Ticker     string
	EntryDate  time.Time
	EntryPrice float64
	Shares     float64
	Strategy   string
	Notes      string

	// Planning fields, optional.
	StopLoss   *float64
	TakeProfit *float64
	Mindset    Mindset

	// Closing fields, present iff Status == StatusClosed.
	ExitDate  *time.Time
	ExitPrice *float64
	PnL       *float64
	IsWin     *bool

	// Attached chart artifact, optional.
	ChartImage    []byte
	ChartAnalysis string

	Status TradeStatus
}

// ComputePnL is the single profit/loss formula for a position.
// The exit preview, the close transition, and broker import all use it,
// so a previewed value always equals the stored one.
func ComputePnL(entryPrice, exitPrice, shares float64) float64 {
	return (exitPrice - entryPrice) * shares
}

// Close transitions the trade to closed, freezing PnL and IsWin.
// It does not validate; the ledger owns the one-way transition rules.
func (t *Trade) Close(exitDate time.Time, exitPrice float64) {
	pnl := ComputePnL(t.EntryPrice, exitPrice, t.Shares)
	win := pnl > 0

	t.ExitDate = &exitDate
	t.ExitPrice = &exitPrice
	t.PnL = &pnl
	t.IsWin = &win
	t.Status = StatusClosed
}

// IsOpen reports whether the trade has not been closed.
func (t *Trade) IsOpen() bool {
	return t.Status != StatusClosed
}

// Clone returns a deep copy of the trade, suitable for draft staging.
func (t Trade) Clone() Trade {
	c := t
	c.StopLoss = copyFloat(t.StopLoss)
	c.TakeProfit = copyFloat(t.TakeProfit)
	c.ExitPrice = copyFloat(t.ExitPrice)
	c.PnL = copyFloat(t.PnL)
	if t.ExitDate != nil {
		d := *t.ExitDate
		c.ExitDate = &d
	}
	if t.IsWin != nil {
		w := *t.IsWin
		c.IsWin = &w
	}
	if t.ChartImage != nil {
		c.ChartImage = append([]byte(nil), t.ChartImage...)
	}
	return c
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
