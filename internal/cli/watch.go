package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"swing-journal/internal/broker"
	"swing-journal/internal/prices"
)

// addWatchCommands adds watchlist and live price commands.
func addWatchCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watchlist and live prices",
	}

	cmd.AddCommand(newWatchAddCmd(app))
	cmd.AddCommand(newWatchRemoveCmd(app))
	cmd.AddCommand(newWatchListCmd(app))
	cmd.AddCommand(newWatchPricesCmd(app))
	cmd.AddCommand(newWatchSearchCmd(app))

	rootCmd.AddCommand(cmd)
}

func newWatchAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <ticker>",
		Short: "Add a ticker to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			ticker := strings.ToUpper(strings.TrimSpace(args[0]))
			if ticker == "" {
				return fmt.Errorf("empty ticker")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := app.Store.AddToWatchlist(ctx, ticker); err != nil {
				output.Error("Failed to add %s: %v", ticker, err)
				return err
			}
			output.Success("Watching %s", ticker)
			return nil
		},
	}
}

func newWatchRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ticker>",
		Short: "Remove a ticker from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			ticker := strings.ToUpper(strings.TrimSpace(args[0]))

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := app.Store.RemoveFromWatchlist(ctx, ticker); err != nil {
				output.Error("Failed to remove %s: %v", ticker, err)
				return err
			}
			output.Success("Stopped watching %s", ticker)
			return nil
		},
	}
}

func newWatchListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			items, err := app.Store.GetWatchlist(ctx)
			if err != nil {
				output.Error("Failed to load watchlist: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(items)
			}
			if len(items) == 0 {
				output.Info("Watchlist is empty.")
				return nil
			}

			table := NewTable(output, "Ticker", "Added")
			for _, item := range items {
				table.AddRow(item.Ticker, item.AddedAt.Format(app.Config.UI.DateFormat))
			}
			table.Render()
			return nil
		},
	}
}

func newWatchPricesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show live prices for watched and open tickers",
		Long: `Show live prices for the watchlist plus the tickers of open trades.

With --follow, prices refresh on the configured quote interval until
interrupted. A failed refresh keeps the last known prices on screen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			follow, _ := cmd.Flags().GetBool("follow")

			tickersFn := func() []string { return watchTickers(app) }

			if !follow {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				quotes, err := app.Broker.LTP(ctx, tickersFn())
				if err != nil {
					output.Error("Failed to fetch prices: %v", err)
					return err
				}
				printPrices(output, quotes)
				return nil
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			poller := prices.NewPoller(app.Broker, app.Config.Journal.QuoteInterval, tickersFn, app.Logger)
			poller.Start(ctx)
			defer poller.Stop()

			output.Info("Refreshing every %s; Ctrl-C to stop", app.Config.Journal.QuoteInterval)
			ticker := time.NewTicker(app.Config.Journal.QuoteInterval)
			defer ticker.Stop()

			printPrices(output, poller.Snapshot())
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					output.Println()
					printPrices(output, poller.Snapshot())
				}
			}
		},
	}

	cmd.Flags().Bool("follow", false, "keep refreshing until interrupted")

	return cmd
}

// watchTickers merges the watchlist with tickers of open trades.
func watchTickers(app *App) []string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seen := make(map[string]bool)
	var tickers []string

	items, err := app.Store.GetWatchlist(ctx)
	if err == nil {
		for _, item := range items {
			if !seen[item.Ticker] {
				seen[item.Ticker] = true
				tickers = append(tickers, item.Ticker)
			}
		}
	}
	for _, t := range openTickers(app.Ledger.Trades()) {
		if !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func printPrices(output *Output, quotes map[string]float64) {
	if len(quotes) == 0 {
		output.Info("No prices available.")
		return
	}

	tickers := make([]string, 0, len(quotes))
	for t := range quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	table := NewTable(output, "Ticker", "Price")
	for _, t := range tickers {
		table.AddRow(t, FormatPrice(quotes[t]))
	}
	table.Render()
}

func newWatchSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search broker instruments",
		Long: `Search the broker's instrument list by ticker or name.

With --interactive, each line typed is a new query. Queries are
debounced, and a result is shown only if no newer query has been
submitted since it was fired.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			interactive, _ := cmd.Flags().GetBool("interactive")
			if !interactive {
				if len(args) == 0 {
					return fmt.Errorf("provide a query or use --interactive")
				}

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				matches, err := app.Broker.SearchInstruments(ctx, args[0])
				if err != nil {
					output.Error("Search failed: %v", err)
					return err
				}
				printMatches(output, matches)
				return nil
			}

			return runInteractiveSearch(app, output)
		},
	}

	cmd.Flags().Bool("interactive", false, "read queries line by line")

	return cmd
}

func runInteractiveSearch(app *App, output *Output) error {
	searcher := prices.NewSearcher(
		func(ctx context.Context, query string) ([]prices.Match, error) {
			lookupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			instruments, err := app.Broker.SearchInstruments(lookupCtx, query)
			if err != nil {
				return nil, err
			}
			matches := make([]prices.Match, len(instruments))
			for i, inst := range instruments {
				matches[i] = prices.Match{Ticker: inst.Ticker, Name: inst.Name, Exchange: inst.Exchange}
			}
			return matches, nil
		},
		app.Config.Journal.SearchDebounce,
		func(result prices.SearchResult) {
			if result.Err != nil {
				output.Error("Search failed: %v", result.Err)
				return
			}
			output.Dim("Results for %q:", result.Query)
			printSearchMatches(output, result.Matches)
		},
	)
	defer searcher.Cancel()

	output.Info("Type a query per line; empty line to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return nil
		}
		searcher.Query(query)
	}
	return scanner.Err()
}

func printMatches(output *Output, instruments []broker.Instrument) {
	if len(instruments) == 0 {
		output.Info("No matches.")
		return
	}
	table := NewTable(output, "Ticker", "Name", "Exchange")
	for _, inst := range instruments {
		table.AddRow(inst.Ticker, TruncateString(inst.Name, 30), inst.Exchange)
	}
	table.Render()
}

func printSearchMatches(output *Output, matches []prices.Match) {
	if len(matches) == 0 {
		output.Info("No matches.")
		return
	}
	table := NewTable(output, "Ticker", "Name", "Exchange")
	for _, m := range matches {
		table.AddRow(m.Ticker, TruncateString(m.Name, 30), m.Exchange)
	}
	table.Render()
}
