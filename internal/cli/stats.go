package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"swing-journal/internal/analytics"
	"swing-journal/internal/logging"
	"swing-journal/internal/models"
)

// addStatsCommands adds the performance reporting commands.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newEquityCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		Long: `Show aggregate performance statistics over the journal.

Realized numbers come from stored P/L on closed trades. Unrealized P/L
is shown only when live prices are available from the broker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			trades := app.Ledger.Trades()
			stats := analytics.Summarize(trades)

			if output.IsJSON() {
				return output.JSON(stats)
			}

			output.Bold("Performance")
			output.Printf("  Trades:        %d total, %d open, %d closed\n",
				stats.TotalTrades, stats.OpenTrades, stats.Closed)
			output.Printf("  Wins/Losses:   %d/%d (%.1f%% win rate)\n",
				stats.Wins, stats.Losses, stats.WinRate)
			output.Printf("  Net P/L:       %s\n", output.FormatPnL(stats.NetPnL))
			output.Printf("  Gross:         %s profit, %s loss\n",
				output.FormatPnL(stats.GrossProfit), output.FormatPnL(stats.GrossLoss))
			if stats.ProfitFactor > 0 {
				output.Printf("  Profit Factor: %.2f\n", stats.ProfitFactor)
			}
			output.Printf("  Avg Win/Loss:  %s / %s\n",
				output.FormatPnL(stats.AvgWin), output.FormatPnL(stats.AvgLoss))
			output.Printf("  Largest:       %s / %s\n",
				output.FormatPnL(stats.LargestWin), output.FormatPnL(stats.LargestLoss))
			if stats.Closed > 0 {
				output.Printf("  Expectancy:    %s per trade\n", output.FormatPnL(stats.Expectancy))
			}

			if unrealized, ok := fetchUnrealized(app, trades); ok {
				output.Printf("  Unrealized:    %s\n", output.FormatPnL(unrealized))
			}

			byStrategy, _ := cmd.Flags().GetBool("by-strategy")
			byTicker, _ := cmd.Flags().GetBool("by-ticker")

			if byStrategy {
				printGroups(output, "By Strategy", analytics.ByStrategy(trades))
			}
			if byTicker {
				printGroups(output, "By Ticker", analytics.ByTicker(trades))
			}
			return nil
		},
	}

	cmd.Flags().Bool("by-strategy", false, "break down by strategy label")
	cmd.Flags().Bool("by-ticker", false, "break down by ticker")

	return cmd
}

func printGroups(output *Output, title string, groups []analytics.GroupStats) {
	if len(groups) == 0 {
		return
	}
	output.Println()
	output.Bold(title)
	table := NewTable(output, "Name", "Trades", "Win Rate", "P/L")
	for _, g := range groups {
		table.AddRow(
			TruncateString(g.Name, 20),
			fmt.Sprintf("%d", g.Trades),
			fmt.Sprintf("%.1f%%", g.WinRate),
			output.FormatPnL(g.PnL),
		)
	}
	table.Render()
}

// fetchUnrealized does a one-shot quote fetch for open tickers. Any
// failure degrades to no unrealized line rather than an error.
func fetchUnrealized(app *App, trades []models.Trade) (float64, bool) {
	if app.Broker == nil || !app.Broker.IsAuthenticated() {
		return 0, false
	}

	tickers := openTickers(trades)
	if len(tickers) == 0 {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prices, err := app.Broker.LTP(ctx, tickers)
	if err != nil {
		logging.LogRemoteDegraded(app.Logger, "quotes", err)
		return 0, false
	}
	return analytics.UnrealizedPnL(trades, prices), true
}

func openTickers(trades []models.Trade) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, t := range trades {
		if t.Status == models.StatusOpen && !seen[t.Ticker] {
			seen[t.Ticker] = true
			tickers = append(tickers, t.Ticker)
		}
	}
	return tickers
}

func newEquityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "equity",
		Short: "Show the cumulative P/L curve",
		Long:  "Render closed trades as a cumulative P/L curve, oldest entry first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			points := analytics.EquityCurve(app.Ledger.Trades())
			if output.IsJSON() {
				return output.JSON(points)
			}

			if len(points) == 0 {
				output.Info("No closed trades yet.")
				return nil
			}

			var maxAbs float64
			for _, p := range points {
				if abs := p.PnL; abs < 0 {
					if -abs > maxAbs {
						maxAbs = -abs
					}
				} else if abs > maxAbs {
					maxAbs = abs
				}
			}

			output.Bold("Equity Curve")
			for _, p := range points {
				bar := renderBar(p.PnL, maxAbs, 20)
				if p.PnL >= 0 {
					bar = output.Green(bar)
				} else {
					bar = output.Red(bar)
				}
				output.Printf("  %s  %-8s %s %s  (cum %s)\n",
					p.Date, p.Ticker, bar, output.FormatPnL(p.PnL), output.FormatPnL(p.Cumulative))
			}
			return nil
		},
	}
}

// renderBar scales pnl against the largest absolute value in the set.
func renderBar(pnl, maxAbs float64, width int) string {
	if maxAbs == 0 {
		return ""
	}
	abs := pnl
	if abs < 0 {
		abs = -abs
	}
	n := int(abs / maxAbs * float64(width))
	if n == 0 && abs > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
