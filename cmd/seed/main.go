package main

import (
	"context"
	"flag"
	"time"

	"github.com/dujiao-next/storefront/internal/app"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/provider"
)

func main() {
	var timeoutSeconds int
	flag.IntVar(&timeoutSeconds, "timeout", 30, "seed timeout in seconds")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	ctx, cancel := context.WithTimeout(context.Background(), secondsOrDefault(timeoutSeconds))
	defer cancel()

	if err := app.InitStorage(ctx, cfg); err != nil {
		stdLog.Fatalf("Failed to init storage: %v", err)
	}

	container, err := provider.NewContainer(ctx, cfg)
	if err != nil {
		stdLog.Fatalf("Failed to build container: %v", err)
	}

	inserted, err := app.SeedCatalog(ctx, container)
	if err != nil {
		stdLog.Fatalf("Failed to seed catalog: %v", err)
	}
	if inserted == 0 {
		stdLog.Printf("Catalog already seeded, nothing to do")
		return
	}
	stdLog.Printf("Seeded %d products (driver=%s)", inserted, cfg.Database.Driver)
}

func secondsOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}
