package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"swing-journal/internal/advisor"
	"swing-journal/internal/broker"
	"swing-journal/internal/config"
	"swing-journal/internal/ledger"
	"swing-journal/internal/logging"
	"swing-journal/internal/sheets"
	"swing-journal/internal/storage"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   *storage.SQLiteStore
	Ledger  *ledger.Ledger
	Broker  *broker.Broker
	Advisor *advisor.Advisor
	Sheets  sheets.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	store, err := storage.NewSQLiteStore(cfg.Journal.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	app.Store = store
	logger.Debug().Str("path", cfg.Journal.DatabasePath).Msg("journal store initialized")

	led, err := ledger.New(store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	app.Ledger = led
	logger.Debug().Int("trades", led.Len()).Msg("ledger loaded")

	if cfg.Credentials.Broker.APIKey != "" {
		app.Broker = broker.New(cfg.Credentials.Broker, "", logger)
		logger.Debug().Msg("broker client initialized")
	}

	if cfg.Credentials.OpenAI.APIKey != "" {
		app.Advisor = advisor.New(cfg.Credentials.OpenAI.APIKey, cfg.Journal.AdvisorModel)
		logger.Debug().Str("model", cfg.Journal.AdvisorModel).Msg("advisor initialized")
	}

	if cfg.Credentials.Sheets.SpreadsheetID != "" {
		app.Sheets = sheets.NewHTTPService(
			cfg.Credentials.Sheets.SpreadsheetID,
			cfg.Credentials.Sheets.AccessToken,
		)
		logger.Debug().Msg("sheets client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Swing Journal - a trading journal for swing traders",
		Long: `Swing Journal is a trading journal CLI for swing traders.

Record trades, close them with a frozen P/L, review performance
statistics, and sync with CSV files, spreadsheets, and your broker.

Use 'journal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/swing-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	addTradeCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addExportCommands(rootCmd, app)
	addSheetsCommands(rootCmd, app)
	addBrokerCommands(rootCmd, app)
	addWatchCommands(rootCmd, app)
	addProfileCommands(rootCmd, app)
	addAdvisorCommands(rootCmd, app)

	return rootCmd, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, nil)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Swing Journal v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Journal Configuration")
			output.Printf("  Database:        %s\n", app.Config.Journal.DatabasePath)
			output.Printf("  Quote Interval:  %s\n", app.Config.Journal.QuoteInterval)
			output.Printf("  Search Debounce: %s\n", app.Config.Journal.SearchDebounce)
			output.Printf("  Advisor Model:   %s\n", app.Config.Journal.AdvisorModel)
			output.Println()
			output.Bold("UI Configuration")
			output.Printf("  Color:           %v\n", app.Config.UI.ColorEnabled)
			output.Printf("  Date Format:     %s\n", app.Config.UI.DateFormat)
			output.Printf("  Currency:        %s\n", app.Config.UI.Currency)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
