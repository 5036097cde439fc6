package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"rentab/internal/cli"
	"rentab/internal/config"
	"rentab/internal/logging"
)

func main() {
	// A missing .env is normal; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load(cli.ConfigDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(logging.FromConfig(cfg.Log))

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
