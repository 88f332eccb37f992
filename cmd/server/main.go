// Package main is the entry point of the house helper registry.
//
// main stays minimal:
//  1. read configuration (.env and environment)
//  2. create the logger
//  3. build and start the server
//
// All actual logic lives in internal/.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Riddhikharpe/house-helpers/internal/config"
	"github.com/Riddhikharpe/house-helpers/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
