// Package config provides configuration management for the journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal     JournalConfig `mapstructure:"journal"`
	UI          UIConfig      `mapstructure:"ui"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// JournalConfig holds journal behavior settings.
type JournalConfig struct {
	DatabasePath   string        `mapstructure:"database_path"`
	QuoteInterval  time.Duration `mapstructure:"quote_interval"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	AdvisorModel   string        `mapstructure:"advisor_model"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	Currency     string `mapstructure:"currency"`
}

// Credentials holds API credentials.
//
// They are stored as plaintext on local disk, which is acceptable for a
// single-user desktop tool but unsuitable for anything production-facing.
type Credentials struct {
	Broker BrokerCredentials `mapstructure:"broker"`
	OpenAI OpenAICredentials `mapstructure:"openai"`
	Sheets SheetsCredentials `mapstructure:"sheets"`
}

// BrokerCredentials holds the Kite Connect credential pair.
type BrokerCredentials struct {
	APIKey     string `mapstructure:"api_key"`
	APISecret  string `mapstructure:"api_secret"`
	UserID     string `mapstructure:"user_id"`
	TOTPSecret string `mapstructure:"totp_secret"` // For auto-login with 2FA
}

// OpenAICredentials holds the OpenAI API key.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// SheetsCredentials holds spreadsheet sync settings.
type SheetsCredentials struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	AccessToken   string `mapstructure:"access_token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/swing-journal"
	}
	return filepath.Join(home, ".config", "swing-journal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.yaml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.yaml: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("journal.quote_interval", 30*time.Second)
	v.SetDefault("journal.search_debounce", 300*time.Millisecond)
	v.SetDefault("journal.advisor_model", "gpt-4o-mini")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency", "$")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Credentials.Broker.APIKey = v
	}
	if v := os.Getenv("KITE_API_SECRET"); v != "" {
		cfg.Credentials.Broker.APISecret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("SHEETS_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Sheets.AccessToken = v
	}
}

func applyDefaults(cfg *Config, configDir string) {
	if cfg.Journal.DatabasePath == "" {
		cfg.Journal.DatabasePath = filepath.Join(configDir, "journal.db")
	}
	if cfg.Journal.QuoteInterval <= 0 {
		cfg.Journal.QuoteInterval = 30 * time.Second
	}
	if cfg.Journal.SearchDebounce <= 0 {
		cfg.Journal.SearchDebounce = 300 * time.Millisecond
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Journal.QuoteInterval < time.Second {
		return fmt.Errorf("quote_interval too small: %s (minimum 1s)", c.Journal.QuoteInterval)
	}
	if c.UI.DateFormat == "" {
		return fmt.Errorf("ui.date_format must not be empty")
	}
	return nil
}
