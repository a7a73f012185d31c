package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swing-journal/internal/analytics"
)

// addAdvisorCommands adds AI commentary commands.
func addAdvisorCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "AI commentary on the journal",
		Long: `AI commentary on journal entries.

All commentary is best effort: a failure here never touches the
journal itself.`,
	}

	cmd.AddCommand(newAdviseFeedbackCmd(app))
	cmd.AddCommand(newAdviseChartCmd(app))
	cmd.AddCommand(newAdviseNewsCmd(app))

	rootCmd.AddCommand(cmd)
}

func requireAdvisor(app *App) error {
	if app.Advisor == nil {
		return fmt.Errorf("advisor not configured: set the OpenAI API key in credentials")
	}
	return nil
}

func newAdviseFeedbackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <id>",
		Short: "Get feedback on a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireAdvisor(app); err != nil {
				return err
			}

			trade, err := findTrade(app, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			stats := analytics.Summarize(app.Ledger.Trades())
			feedback, err := app.Advisor.TradeFeedback(ctx, trade, stats)
			if err != nil {
				output.Error("Feedback unavailable: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"trade": trade.ID, "feedback": feedback})
			}
			output.Bold("Feedback on %s", trade.Ticker)
			output.Println()
			output.Println(feedback)
			return nil
		},
	}
}

func newAdviseChartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chart <id>",
		Short: "Analyze the chart attached to a trade",
		Long: `Analyze the chart screenshot attached to a trade.

The analysis is stored on the trade and shown by 'journal show'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireAdvisor(app); err != nil {
				return err
			}

			trade, err := findTrade(app, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			analysis, err := app.Advisor.ChartRead(ctx, trade.Ticker, trade.ChartImage)
			if err != nil {
				output.Error("Chart analysis unavailable: %v", err)
				return err
			}

			trade.ChartAnalysis = analysis
			if err := app.Ledger.Update(trade); err != nil {
				output.Warning("Analysis not saved: %v", err)
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"trade": trade.ID, "analysis": analysis})
			}
			output.Bold("Chart Analysis: %s", trade.Ticker)
			output.Println()
			output.Println(analysis)
			return nil
		},
	}
}

func newAdviseNewsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Brief on catalysts for open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireAdvisor(app); err != nil {
				return err
			}

			tickers := openTickers(app.Ledger.Trades())
			if len(tickers) == 0 {
				output.Info("No open positions to brief on.")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			brief, err := app.Advisor.NewsBrief(ctx, tickers)
			if err != nil {
				output.Error("Brief unavailable: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"brief": brief})
			}
			output.Bold("What to watch")
			output.Println()
			output.Println(brief)
			return nil
		},
	}
}
