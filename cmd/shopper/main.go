package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dujiao-next/storefront/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shopper: %v\n", err)
		os.Exit(2)
	}
	logger.Init(cfg.LogMode, logger.Options{})
	defer func() { _ = logger.Z().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.Errorw("shopper_run_failed", "error", err)
		fmt.Fprintf(os.Stderr, "shopper: %v\n", err)
		os.Exit(1)
	}
}
