package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "swing-journal/internal/errors"
	"swing-journal/internal/models"
)

// addTradeCommands adds the core journal entry commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newTradeAddCmd(app))
	rootCmd.AddCommand(newTradeListCmd(app))
	rootCmd.AddCommand(newTradeShowCmd(app))
	rootCmd.AddCommand(newTradeEditCmd(app))
	rootCmd.AddCommand(newTradeCloseCmd(app))
	rootCmd.AddCommand(newTradeDeleteCmd(app))
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new open trade",
		Long:  "Record a new open position at the top of the journal.",
		Example: `  journal add --ticker AAPL --entry 187.50 --shares 10
  journal add --ticker TSLA --entry 240 --shares 5 --strategy "Breakout" --mindset disciplined`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			ticker, _ := cmd.Flags().GetString("ticker")
			entry, _ := cmd.Flags().GetFloat64("entry")
			shares, _ := cmd.Flags().GetFloat64("shares")
			dateStr, _ := cmd.Flags().GetString("date")
			strategy, _ := cmd.Flags().GetString("strategy")
			notes, _ := cmd.Flags().GetString("notes")
			mindset, _ := cmd.Flags().GetString("mindset")
			chartPath, _ := cmd.Flags().GetString("chart")

			entryDate := dateOnly(time.Now())
			if dateStr != "" {
				parsed, err := time.Parse(app.Config.UI.DateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("bad --date %q: expected %s", dateStr, app.Config.UI.DateFormat)
				}
				entryDate = parsed
			}

			trade := models.Trade{
				ID:         uuid.NewString(),
				Ticker:     strings.ToUpper(strings.TrimSpace(ticker)),
				EntryDate:  entryDate,
				EntryPrice: entry,
				Shares:     shares,
				Strategy:   strategy,
				Notes:      notes,
				Status:     models.StatusOpen,
			}

			if mindset != "" {
				parsed, ok := models.ParseMindset(mindset)
				if !ok {
					return fmt.Errorf("unknown mindset %q", mindset)
				}
				trade.Mindset = parsed
			}

			if stop, err := cmd.Flags().GetFloat64("stop"); err == nil && cmd.Flags().Changed("stop") {
				trade.StopLoss = &stop
			}
			if target, err := cmd.Flags().GetFloat64("target"); err == nil && cmd.Flags().Changed("target") {
				trade.TakeProfit = &target
			}

			if chartPath != "" {
				image, err := os.ReadFile(chartPath)
				if err != nil {
					return fmt.Errorf("failed to read chart image: %w", err)
				}
				trade.ChartImage = image
			}

			if err := app.Ledger.Add(trade); err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Recorded %s: %.2f shares at %s", trade.Ticker, trade.Shares, FormatPrice(trade.EntryPrice))
			output.Dim("ID: %s", ShortID(trade.ID))
			return nil
		},
	}

	cmd.Flags().String("ticker", "", "ticker symbol (required)")
	cmd.Flags().Float64("entry", 0, "entry price (required)")
	cmd.Flags().Float64("shares", 0, "number of shares (required)")
	cmd.Flags().String("date", "", "entry date (default: today)")
	cmd.Flags().String("strategy", "", "strategy label")
	cmd.Flags().String("notes", "", "journal notes")
	cmd.Flags().Float64("stop", 0, "stop loss price")
	cmd.Flags().Float64("target", 0, "take profit price")
	cmd.Flags().String("mindset", "", "mindset tag (disciplined, fomo, anxious, confident, neutral)")
	cmd.Flags().String("chart", "", "path to a chart screenshot to attach")
	cmd.MarkFlagRequired("ticker")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("shares")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			openOnly, _ := cmd.Flags().GetBool("open")
			closedOnly, _ := cmd.Flags().GetBool("closed")
			tickerFilter, _ := cmd.Flags().GetString("ticker")
			tickerFilter = strings.ToUpper(strings.TrimSpace(tickerFilter))

			var trades []models.Trade
			for _, t := range app.Ledger.Trades() {
				if openOnly && t.Status != models.StatusOpen {
					continue
				}
				if closedOnly && t.Status != models.StatusClosed {
					continue
				}
				if tickerFilter != "" && t.Ticker != tickerFilter {
					continue
				}
				trades = append(trades, t)
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "Ticker", "Entry", "Price", "Shares", "Status", "P/L", "Strategy")
			for _, t := range trades {
				pnl := output.DimText("-")
				if t.PnL != nil {
					pnl = output.FormatPnL(*t.PnL)
				}
				table.AddRow(
					ShortID(t.ID),
					t.Ticker,
					t.EntryDate.Format(app.Config.UI.DateFormat),
					FormatPrice(t.EntryPrice),
					fmt.Sprintf("%.2f", t.Shares),
					string(t.Status),
					pnl,
					TruncateString(t.Strategy, 18),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool("open", false, "show only open trades")
	cmd.Flags().Bool("closed", false, "show only closed trades")
	cmd.Flags().String("ticker", "", "filter by ticker")

	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			trade, err := findTrade(app, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Bold("%s  %s", trade.Ticker, string(trade.Status))
			output.Dim("ID: %s", trade.ID)
			output.Println()
			output.Printf("  Entry:     %s at %s, %.2f shares\n",
				trade.EntryDate.Format(app.Config.UI.DateFormat), FormatPrice(trade.EntryPrice), trade.Shares)
			if trade.StopLoss != nil {
				output.Printf("  Stop:      %s\n", FormatPrice(*trade.StopLoss))
			}
			if trade.TakeProfit != nil {
				output.Printf("  Target:    %s\n", FormatPrice(*trade.TakeProfit))
			}
			if trade.Strategy != "" {
				output.Printf("  Strategy:  %s\n", trade.Strategy)
			}
			if trade.Mindset != "" {
				output.Printf("  Mindset:   %s\n", trade.Mindset)
			}
			if trade.Status == models.StatusClosed {
				output.Printf("  Exit:      %s at %s\n",
					trade.ExitDate.Format(app.Config.UI.DateFormat), FormatPrice(*trade.ExitPrice))
				output.Printf("  P/L:       %s\n", output.FormatPnL(*trade.PnL))
			}
			if trade.Notes != "" {
				output.Println()
				output.Bold("Notes")
				output.Printf("  %s\n", trade.Notes)
			}
			if trade.ChartAnalysis != "" {
				output.Println()
				output.Bold("Chart Analysis")
				output.Printf("  %s\n", trade.ChartAnalysis)
			}
			return nil
		},
	}
}

func newTradeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit notes and labels on a trade",
		Long: `Edit the journal fields of a trade.

Only notes, strategy, mindset, stop, and target can change. Entry and
exit economics are fixed once recorded; a closed trade keeps its stored
P/L no matter how its notes are edited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			trade, err := findTrade(app, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("notes") {
				trade.Notes, _ = cmd.Flags().GetString("notes")
			}
			if cmd.Flags().Changed("strategy") {
				trade.Strategy, _ = cmd.Flags().GetString("strategy")
			}
			if cmd.Flags().Changed("mindset") {
				mindset, _ := cmd.Flags().GetString("mindset")
				parsed, ok := models.ParseMindset(mindset)
				if !ok {
					return fmt.Errorf("unknown mindset %q", mindset)
				}
				trade.Mindset = parsed
			}
			if cmd.Flags().Changed("stop") {
				stop, _ := cmd.Flags().GetFloat64("stop")
				trade.StopLoss = &stop
			}
			if cmd.Flags().Changed("target") {
				target, _ := cmd.Flags().GetFloat64("target")
				trade.TakeProfit = &target
			}

			if err := app.Ledger.Update(trade); err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Updated %s", trade.Ticker)
			return nil
		},
	}

	cmd.Flags().String("notes", "", "journal notes")
	cmd.Flags().String("strategy", "", "strategy label")
	cmd.Flags().String("mindset", "", "mindset tag")
	cmd.Flags().Float64("stop", 0, "stop loss price")
	cmd.Flags().Float64("target", 0, "take profit price")

	return cmd
}

func newTradeCloseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close an open trade",
		Long: `Close an open trade at an exit price.

The P/L is computed once at close and stored with the trade; it never
changes afterward.`,
		Example: `  journal close 1a2b3c4d --price 195.30
  journal close 1a2b3c4d --price 195.30 --date 2026-08-20 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			trade, err := findTrade(app, args[0])
			if err != nil {
				return err
			}
			if trade.Status == models.StatusClosed {
				return apperrors.ErrAlreadyClosed
			}

			price, _ := cmd.Flags().GetFloat64("price")
			dateStr, _ := cmd.Flags().GetString("date")
			yes, _ := cmd.Flags().GetBool("yes")

			exitDate := dateOnly(time.Now())
			if dateStr != "" {
				parsed, err := time.Parse(app.Config.UI.DateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("bad --date %q: expected %s", dateStr, app.Config.UI.DateFormat)
				}
				exitDate = parsed
			}

			preview := models.ComputePnL(trade.EntryPrice, price, trade.Shares)
			if !yes && !output.IsJSON() {
				output.Printf("Close %s: %.2f shares, entry %s, exit %s\n",
					trade.Ticker, trade.Shares, FormatPrice(trade.EntryPrice), FormatPrice(price))
				output.Printf("P/L: %s\n", output.FormatPnL(preview))
				if !confirm("Proceed?") {
					output.Info("Cancelled.")
					return nil
				}
			}

			closed, err := app.Ledger.CloseTrade(trade.ID, exitDate, price)
			if err != nil {
				output.Error("Failed to close trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(closed)
			}
			output.Success("Closed %s with P/L %s", closed.Ticker, output.FormatPnL(*closed.PnL))
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "exit price (required)")
	cmd.Flags().String("date", "", "exit date (default: today)")
	cmd.Flags().Bool("yes", false, "skip confirmation")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade from the journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			trade, err := findTrade(app, args[0])
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !output.IsJSON() {
				if !confirm(fmt.Sprintf("Delete %s (%s)?", trade.Ticker, ShortID(trade.ID))) {
					output.Info("Cancelled.")
					return nil
				}
			}

			if err := app.Ledger.Remove(trade.ID); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": trade.ID})
			}
			output.Success("Deleted %s", trade.Ticker)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip confirmation")

	return cmd
}

// findTrade resolves a full ID or unique ID prefix into a trade.
func findTrade(app *App, arg string) (models.Trade, error) {
	if trade, err := app.Ledger.Get(arg); err == nil {
		return trade, nil
	}

	var matches []models.Trade
	for _, t := range app.Ledger.Trades() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Trade{}, apperrors.ErrTradeNotFound
	default:
		return models.Trade{}, fmt.Errorf("ambiguous trade id %q: %d matches", arg, len(matches))
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
