package main

import (
	"fmt"
	"os"

	"trade-journal/internal/cli"
	"trade-journal/internal/config"
	"trade-journal/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("TRADE_JOURNAL_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default("")
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	if err := cli.Execute(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
