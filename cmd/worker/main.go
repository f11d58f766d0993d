package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lpworks/lp-intake-backend/config"
	"github.com/lpworks/lp-intake-backend/internal/bootstrap"
	"github.com/lpworks/lp-intake-backend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp loads config and wires the services for one command run.
func withApp(cmd *cobra.Command, run func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetBase(logger)

	ctx := cmd.Context()
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return run(ctx, app)
}
