package analytics

import "swing-journal/internal/models"

// Stats aggregates the report numbers shown by the stats command.
type Stats struct {
	TotalTrades int
	OpenTrades  int
	Closed      int
	Wins        int
	Losses      int

	NetPnL       float64
	GrossProfit  float64
	GrossLoss    float64
	WinRate      float64
	ProfitFactor float64
	AvgWin       float64
	AvgLoss      float64
	LargestWin   float64
	LargestLoss  float64
	Expectancy   float64
}

// GroupStats holds per-ticker or per-strategy aggregates.
type GroupStats struct {
	Name    string
	Trades  int
	Wins    int
	PnL     float64
	WinRate float64
}

// Summarize computes the full report over closed trades.
func Summarize(trades []models.Trade) Stats {
	s := Stats{TotalTrades: len(trades)}

	for _, t := range trades {
		if t.Status != models.StatusClosed || t.PnL == nil {
			s.OpenTrades++
			continue
		}
		s.Closed++
		pnl := *t.PnL
		if t.IsWin != nil && *t.IsWin {
			s.Wins++
			s.GrossProfit += pnl
			if pnl > s.LargestWin {
				s.LargestWin = pnl
			}
		} else {
			s.Losses++
			s.GrossLoss += pnl
			if pnl < s.LargestLoss {
				s.LargestLoss = pnl
			}
		}
	}

	s.NetPnL = s.GrossProfit + s.GrossLoss
	if s.Closed > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Closed) * 100
		s.Expectancy = s.NetPnL / float64(s.Closed)
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.Losses)
	}
	if s.GrossLoss != 0 {
		s.ProfitFactor = s.GrossProfit / (-s.GrossLoss)
	}
	return s
}

// ByStrategy breaks closed trades down per strategy label.
func ByStrategy(trades []models.Trade) []GroupStats {
	return groupBy(trades, func(t models.Trade) string {
		if t.Strategy == "" {
			return "Unlabeled"
		}
		return t.Strategy
	})
}

// ByTicker breaks closed trades down per ticker.
func ByTicker(trades []models.Trade) []GroupStats {
	return groupBy(trades, func(t models.Trade) string { return t.Ticker })
}

func groupBy(trades []models.Trade, key func(models.Trade) string) []GroupStats {
	order := make([]string, 0)
	groups := make(map[string]*GroupStats)

	for _, t := range trades {
		if t.Status != models.StatusClosed || t.PnL == nil {
			continue
		}
		k := key(t)
		g, ok := groups[k]
		if !ok {
			g = &GroupStats{Name: k}
			groups[k] = g
			order = append(order, k)
		}
		g.Trades++
		g.PnL += *t.PnL
		if t.IsWin != nil && *t.IsWin {
			g.Wins++
		}
	}

	out := make([]GroupStats, 0, len(order))
	for _, k := range order {
		g := groups[k]
		if g.Trades > 0 {
			g.WinRate = float64(g.Wins) / float64(g.Trades) * 100
		}
		out = append(out, *g)
	}
	return out
}
