package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// addBrokerCommands adds broker session and import commands.
func addBrokerCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "broker",
		Short: "Broker session and trade import",
		Long:  "Authenticate with the broker and import executed trades into the journal.",
	}

	cmd.AddCommand(newBrokerLoginCmd(app))
	cmd.AddCommand(newBrokerLogoutCmd(app))
	cmd.AddCommand(newBrokerStatusCmd(app))
	cmd.AddCommand(newBrokerTOTPCmd(app))
	cmd.AddCommand(newBrokerImportCmd(app))

	rootCmd.AddCommand(cmd)
}

func requireBroker(app *App) error {
	if app.Broker == nil {
		return fmt.Errorf("broker not configured: set api_key in credentials")
	}
	return nil
}

func newBrokerLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the broker",
		Long: `Authenticate with the broker.

Without a request token this reuses a saved session if one is still
valid, otherwise it prints the login URL to visit. Pass the request
token from the redirect URL to complete the login.`,
		Example: `  journal broker login
  journal broker login --request-token abc123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			requestToken, _ := cmd.Flags().GetString("request-token")
			if requestToken != "" {
				if err := app.Broker.CompleteLogin(ctx, requestToken); err != nil {
					output.Error("Login failed: %v", err)
					return err
				}
				output.Success("Logged in; session saved")
				return nil
			}

			if err := app.Broker.Login(ctx); err != nil {
				output.Info("%v", err)
				return nil
			}
			output.Success("Session is active")
			return nil
		},
	}

	cmd.Flags().String("request-token", "", "request token from the login redirect")

	return cmd
}

func newBrokerLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the broker session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Broker.Logout(ctx); err != nil {
				output.Error("Logout failed: %v", err)
				return err
			}
			output.Success("Logged out")
			return nil
		},
	}
}

func newBrokerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show broker session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			authenticated := app.Broker.IsAuthenticated()
			if output.IsJSON() {
				return output.JSON(map[string]bool{"authenticated": authenticated})
			}
			if authenticated {
				output.Success("Session is active")
			} else {
				output.Warning("Not authenticated; run 'journal broker login'")
			}
			return nil
		},
	}
}

func newBrokerTOTPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "totp",
		Short: "Print the current TOTP code for login",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			code, err := app.Broker.TOTPCode()
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"code": code})
			}
			output.Println(code)
			return nil
		},
	}
}

func newBrokerImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import executed trades from the broker",
		Long: `Import executed fills from the broker tradebook, replacing the
current journal.

Buy and sell fills are paired per ticker into journal entries; matched
pairs arrive closed with their P/L stored, unmatched buys arrive open.
Malformed fills are skipped with a logged warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := requireBroker(app); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := app.Broker.ImportTrades(ctx, app.Logger)
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
			output.Success("Imported %d trades from the broker", len(result.Trades))
			if result.Skipped > 0 {
				output.Warning("Skipped %d malformed fills (see log)", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip confirmation")

	return cmd
}
