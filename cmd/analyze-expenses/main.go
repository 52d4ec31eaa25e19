package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"expense-insights/internal/cli"
	"expense-insights/internal/config"
	"expense-insights/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return cli.ExitOK
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		if !errors.Is(err, config.ErrFlagSyntax) {
			config.PrintUsage(os.Stderr)
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", config.ProgramName, err)
		}
		return cli.ExitUsage
	}

	logger := cli.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Logger: logger,
	}

	if cfg.SQLiteDBPath != "" {
		repo, err := storage.Open(ctx, cfg.SQLiteDBPath, logger)
		if err != nil {
			return app.FailLoad(ctx, err)
		}
		defer repo.Close()
		app.Store = repo
	}

	if cfg.Publish {
		app.Publish = cli.AMQPPublisher(cfg, logger)
	}

	return app.Run(ctx)
}
