package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/cli"
	"github.com/AvivElectis/electisSpace-sub002/internal/config"
	"github.com/AvivElectis/electisSpace-sub002/internal/entrypoint"
	"github.com/AvivElectis/electisSpace-sub002/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.NewConfig()
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		entrypoint.Run(cfg, logger.With(zap.String("commit", Commit)), Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "sync-once":
		cmd := cli.NewSyncOnceCommand()
		if err := cmd.ParseFlags(args); err != nil {
			exit(logger, err)
		}
		app := newApp(cfg, logger)
		err := cmd.Run(context.Background(), app.Processor)
		app.Close()
		if err != nil {
			exit(logger, err)
		}

	case "reprocess":
		cmd := cli.NewReprocessCommand()
		if err := cmd.ParseFlags(args); err != nil {
			exit(logger, err)
		}
		app := newApp(cfg, logger)
		err := cmd.Run(context.Background(), app.Processor)
		app.Close()
		if err != nil {
			exit(logger, err)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, logger *zap.Logger) *entrypoint.App {
	app, err := entrypoint.NewApp(cfg, logger)
	if err != nil {
		exit(logger, err)
	}
	return app
}

func exit(logger *zap.Logger, err error) {
	_ = logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve       Start the HTTP server and sync processor (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  sync-once   Process due sync queue items once and print the result\n")
	fmt.Fprintf(os.Stderr, "  reprocess   Reprocess a single sync queue item by ID\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
