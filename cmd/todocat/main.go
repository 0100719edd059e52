// Package main is the entry point for the todocat CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"todocat/internal/backend/restapi"
	"todocat/internal/cli"
	"todocat/internal/commands"
	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/logging"
	"todocat/internal/service"
)

func main() {
	// Optional .env in the working directory feeds the TODOCAT_* variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: .env: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}

	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		log := logging.New(os.Stderr, cfg.Debug)
		return restapi.New(cfg, restapi.WithLogger(log))
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
