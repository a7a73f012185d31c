// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "swing-journal", "logs", "journal.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithTicker adds a ticker symbol to the logger context.
func WithTicker(logger zerolog.Logger, ticker string) zerolog.Logger {
	return logger.With().Str("ticker", ticker).Logger()
}

// LogTradeSaved logs a ledger mutation.
func LogTradeSaved(logger zerolog.Logger, op, tradeID, ticker string, count int) {
	logger.Info().
		Str("event", "ledger").
		Str("op", op).
		Str("trade_id", tradeID).
		Str("ticker", ticker).
		Int("ledger_size", count).
		Msg("Ledger updated")
}

// LogImport logs the outcome of a bulk import.
func LogImport(logger zerolog.Logger, source string, imported, skipped int) {
	logger.Info().
		Str("event", "import").
		Str("source", source).
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("Import completed")
}

// LogSkippedRow logs a single dropped row during a bulk import.
func LogSkippedRow(logger zerolog.Logger, source string, row int, reason string) {
	logger.Warn().
		Str("event", "import").
		Str("source", source).
		Int("row", row).
		Str("reason", reason).
		Msg("Row skipped")
}

// LogRemoteDegraded logs an optional enrichment that failed and degraded.
func LogRemoteDegraded(logger zerolog.Logger, service string, err error) {
	logger.Warn().
		Str("event", "remote").
		Str("service", service).
		Err(err).
		Msg("Remote call failed, continuing without result")
}
