package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/catalog"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/router"
	"github.com/dujiao-next/storefront/internal/worker"
)

// InitStorage 按驱动初始化存储：SQL 驱动连接并迁移，mongo 驱动连接文档库
func InitStorage(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	switch models.NormalizeDriver(cfg.Database.Driver) {
	case constants.DatabaseDriverMongo:
		timeout := time.Duration(cfg.Mongo.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		connectCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := models.InitMongo(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database); err != nil {
			return fmt.Errorf("init mongo: %w", err)
		}
		return nil
	default:
		if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		if err := models.AutoMigrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		return nil
	}
}

// SeedCatalog 商品目录为空时写入默认商品
func SeedCatalog(ctx context.Context, container *provider.Container) (int, error) {
	if container == nil || container.ProductService == nil {
		return 0, errors.New("product service not initialized")
	}
	return container.ProductService.EnsureSeeded(ctx, catalog.DefaultProducts())
}

// BuildRunner 构建服务运行器
func BuildRunner(ctx context.Context, cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Catalog.SeedOnStartup {
		inserted, err := SeedCatalog(ctx, container)
		if err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		if inserted > 0 {
			logger.Infow("catalog_seeded", "count", inserted)
		}
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务（队列未启用时 all 模式仅启动 HTTP）
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnShutdown("queue_client", func(context.Context) error {
		if container.QueueClient == nil {
			return nil
		}
		return container.QueueClient.Close()
	})
	runner.OnShutdown("redis", func(context.Context) error {
		return cache.Close()
	})
	runner.OnShutdown("mongo", models.CloseMongo)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(context.Background(), opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "driver", opts.Config.Database.Driver)
	return RunWithOptions(runner, opts)
}
