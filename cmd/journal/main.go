package main

import (
	"fmt"
	"os"
	"path/filepath"

	"swing-journal/internal/cli"
	"swing-journal/internal/config"
	"swing-journal/internal/logging"
)

func main() {
	configDir := config.DefaultConfigDir()
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configDir = os.Args[i+1]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.FilePath = filepath.Join(configDir, "logs", "journal.log")
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd, err := cli.NewRootCmd(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
