package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"phonebook/internal/app"
	"phonebook/internal/config"
	"phonebook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewAdapter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("application starting",
		"env", cfg.Env,
		"storage", cfg.Storage.Driver,
		"api_version", cfg.App.APIVersion,
	)

	if err = app.Run(ctx, cfg, log); err != nil {
		log.Errorw("application failed", "error", err)
		cancel()
		os.Exit(1)
	}

	log.Infow("application exited normally")
}
