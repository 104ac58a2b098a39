package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/C3MO/reddit2Linkedin/internal/config"
)

func main() {
	// 1. Setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	build := func() (*app, error) {
		cfg, err := config.Load(os.Getenv("ENV_FILE"))
		if err != nil {
			return nil, err
		}
		return newApp(cfg, logger), nil
	}

	// 2. Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(build)
	if cmd, err := root.ExecuteContextC(ctx); err != nil {
		logger.Error("Command failed", "cmd", cmd.Name(), "err", err)
		stop()
		os.Exit(1)
	}
}
