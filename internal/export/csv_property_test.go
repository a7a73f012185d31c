package export

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"swing-journal/internal/models"
)

// tradeSpec is the generator's shape for one random trade.
type tradeSpec struct {
	TickerIdx int
	Entry     float64
	Exit      float64
	Shares    float64
	Closed    bool
	DayOffset int
}

// Property: any ledger written to CSV reads back with the same ids,
// statuses, and stored pnl values, with no rows skipped.
func TestProperty_CSVRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	tickers := []string{"AAPL", "TSLA", "NVDA", "MSFT", "AMZN", "GOOG"}

	specGen := gen.Struct(reflect.TypeOf(tradeSpec{}), map[string]gopter.Gen{
		"TickerIdx": gen.IntRange(0, len(tickers)-1),
		"Entry":     gen.Float64Range(0.5, 5000),
		"Exit":      gen.Float64Range(0.5, 5000),
		"Shares":    gen.Float64Range(1, 500),
		"Closed":    gen.Bool(),
		"DayOffset": gen.IntRange(0, 365),
	})

	properties.Property("write then read preserves every trade", prop.ForAll(
		func(specs []tradeSpec) bool {
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			trades := make([]models.Trade, len(specs))
			for i, s := range specs {
				trade := models.Trade{
					ID:         fmt.Sprintf("trade-%d", i),
					Ticker:     tickers[s.TickerIdx%len(tickers)],
					EntryDate:  base.AddDate(0, 0, s.DayOffset),
					EntryPrice: s.Entry,
					Shares:     s.Shares,
					Status:     models.StatusOpen,
				}
				if s.Closed {
					trade.Close(trade.EntryDate.AddDate(0, 0, 3), s.Exit)
				}
				trades[i] = trade
			}

			var buf bytes.Buffer
			if err := WriteCSV(&buf, trades); err != nil {
				return false
			}
			result, err := ReadCSV(&buf, zerolog.Nop())
			if err != nil || result.Skipped != 0 {
				return false
			}
			if len(result.Trades) != len(trades) {
				return false
			}
			for i, got := range result.Trades {
				want := trades[i]
				if got.ID != want.ID || got.Ticker != want.Ticker || got.Status != want.Status {
					return false
				}
				if got.EntryPrice != want.EntryPrice || got.Shares != want.Shares {
					return false
				}
				if want.PnL != nil {
					if got.PnL == nil || *got.PnL != *want.PnL {
						return false
					}
					if got.IsWin == nil || *got.IsWin != *want.IsWin {
						return false
					}
				} else if got.PnL != nil {
					return false
				}
			}
			return true
		},
		gen.SliceOf(specGen),
	))

	properties.TestingRun(t)
}
