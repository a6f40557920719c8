// Package main is the entry point for the nutrition tracker API server.
//
// main stays minimal:
//  1. Read configuration from the environment
//  2. Set up logging
//  3. Build the server and run it until SIGINT/SIGTERM
//
// All actual logic lives in internal/.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/nutrition-tracker/internal/config"
	"github.com/sakif/nutrition-tracker/internal/logging"
	"github.com/sakif/nutrition-tracker/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet: the log settings are part of what failed to load.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.FDCAPIKey == "DEMO_KEY" {
		logger.Warn("FDC_API_KEY not set, using the rate-limited DEMO_KEY")
	}

	// nil lookup: talk to FoodData Central as configured.
	srv, err := server.New(cfg, logger, nil)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
