package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"swing-journal/internal/export"
)

// addExportCommands adds CSV import and export commands.
func addExportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			path, _ := cmd.Flags().GetString("out")
			if path == "" {
				path = export.Filename(time.Now())
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()

			trades := app.Ledger.Trades()
			if err := export.WriteCSV(f, trades); err != nil {
				output.Error("Export failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"file": path, "trades": len(trades)})
			}
			output.Success("Exported %d trades to %s", len(trades), path)
			return nil
		},
	}

	cmd.Flags().String("out", "", "output file (default: swing-journal-<date>.csv)")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a journal from a CSV file",
		Long: `Import trades from a CSV file, replacing the current journal.

Rows that cannot be parsed are skipped with a logged warning; the rest
import normally. A file with a valid header and no usable rows imports
as an empty journal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			result, err := export.ReadCSV(f, app.Logger)
			if err != nil {
				output.Error("Import failed: %v", err)
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !output.IsJSON() && app.Ledger.Len() > 0 {
				if !confirm(fmt.Sprintf("Replace %d existing trades with %d imported?",
					app.Ledger.Len(), len(result.Trades))) {
					output.Info("Cancelled.")
					return nil
				}
			}

			if err := app.Ledger.ReplaceAll(result.Trades); err != nil {
				output.Error("Failed to save imported trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{
					"imported": len(result.Trades),
					"skipped":  result.Skipped,
				})
			}
			output.Success("Imported %d trades", len(result.Trades))
			if result.Skipped > 0 {
				output.Warning("Skipped %d unparseable rows (see log)", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip confirmation")

	return cmd
}
