package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swing-journal/internal/sheets"
)

// addSheetsCommands adds spreadsheet sync commands.
func addSheetsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Sync the journal with a spreadsheet",
		Long: `Sync the journal with a Google Sheets spreadsheet.

Push overwrites the remote Trades and Analysis sheets with the current
journal; remote edits do not survive a push. Pull reads the Trades
sheet back and replaces the local journal.`,
	}

	cmd.AddCommand(newSheetsPushCmd(app))
	cmd.AddCommand(newSheetsPullCmd(app))

	rootCmd.AddCommand(cmd)
}

func requireSheets(app *App) error {
	if app.Sheets == nil {
		return fmt.Errorf("sheets not configured: set spreadsheet_id and access token in credentials")
	}
	return nil
}

func newSheetsPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Overwrite the spreadsheet with the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireSheets(app); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			trades := app.Ledger.Trades()
			if err := sheets.Push(ctx, app.Sheets, trades); err != nil {
				output.Error("Push failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"pushed": len(trades)})
			}
			output.Success("Pushed %d trades to the spreadsheet", len(trades))
			return nil
		},
	}
}

func newSheetsPullCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Replace the journal with the spreadsheet contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireSheets(app); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := sheets.Pull(ctx, app.Sheets, app.Logger)
			if err != nil {
				output.Error("Pull failed: %v", err)
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !output.IsJSON() && app.Ledger.Len() > 0 {
				if !confirm(fmt.Sprintf("Replace %d existing trades with %d pulled?",
					app.Ledger.Len(), len(result.Trades))) {
					output.Info("Cancelled.")
					return nil
				}
			}

			if err := app.Ledger.ReplaceAll(result.Trades); err != nil {
				output.Error("Failed to save pulled trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{
					"pulled":  len(result.Trades),
					"skipped": result.Skipped,
				})
			}
			output.Success("Pulled %d trades", len(result.Trades))
			if result.Skipped > 0 {
				output.Warning("Skipped %d unparseable rows (see log)", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip confirmation")

	return cmd
}
