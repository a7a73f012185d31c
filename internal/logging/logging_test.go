package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLoggerWithConfigWritesToConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "journal.log")
	cfg := LogConfig{
		Level:      "info",
		Console:    false,
		File:       true,
		FilePath:   path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	}

	logger := NewLoggerWithConfig(cfg)
	logger.Info().Msg("started")

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not created at configured path: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":    "debug",
		"warn":     "warn",
		"nonsense": "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
