package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"
)

// Repositories 数据访问层集合
type Repositories struct {
	User         repository.UserRepository
	Cart         repository.CartRepository
	Product      repository.ProductRepository
	UserLoginLog repository.UserLoginLogRepository
}

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Store       cache.JSONStore
	Tokens      *service.JWTTokenService

	// Repositories
	UserRepo         repository.UserRepository
	CartRepo         repository.CartRepository
	ProductRepo      repository.ProductRepository
	UserLoginLogRepo repository.UserLoginLogRepository

	// Services
	UserAuthService     *service.UserAuthService
	CartService         *service.CartService
	ProductService      *service.ProductService
	UserLoginLogService *service.UserLoginLogService
}

// NewContainer 按配置初始化缓存、队列与存储后端并组装容器
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	repos, err := buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Build(cfg, repos, queueClient, cache.NewStore()), nil
}

// Build 使用给定的存储与基础设施组装服务（测试可注入内存实现）
func Build(cfg *config.Config, repos Repositories, queueClient *queue.Client, store cache.JSONStore) *Container {
	c := &Container{
		Config:           cfg,
		QueueClient:      queueClient,
		Store:            store,
		UserRepo:         repos.User,
		CartRepo:         repos.Cart,
		ProductRepo:      repos.Product,
		UserLoginLogRepo: repos.UserLoginLog,
	}
	c.initServices()
	return c
}

// MemoryRepositories 全内存存储（测试与本地演示）
func MemoryRepositories() Repositories {
	return Repositories{
		User:         repository.NewMemoryUserRepository(),
		Cart:         repository.NewMemoryCartRepository(),
		Product:      repository.NewMemoryProductRepository(),
		UserLoginLog: repository.NewMemoryUserLoginLogRepository(),
	}
}

func buildRepositories(ctx context.Context, cfg *config.Config) (Repositories, error) {
	switch models.NormalizeDriver(cfg.Database.Driver) {
	case constants.DatabaseDriverMongo:
		db := models.MongoDB
		if db == nil {
			return Repositories{}, fmt.Errorf("mongo not initialized")
		}
		userRepo, err := repository.NewMongoUserRepository(ctx, db)
		if err != nil {
			return Repositories{}, err
		}
		cartRepo, err := repository.NewMongoCartRepository(ctx, db)
		if err != nil {
			return Repositories{}, err
		}
		loginLogRepo, err := repository.NewMongoUserLoginLogRepository(ctx, db)
		if err != nil {
			return Repositories{}, err
		}
		return Repositories{
			User:         userRepo,
			Cart:         cartRepo,
			Product:      repository.NewMongoProductRepository(db),
			UserLoginLog: loginLogRepo,
		}, nil
	default:
		db := models.DB
		if db == nil {
			return Repositories{}, fmt.Errorf("database not initialized")
		}
		return Repositories{
			User:         repository.NewUserRepository(db),
			Cart:         repository.NewCartRepository(db),
			Product:      repository.NewProductRepository(db),
			UserLoginLog: repository.NewUserLoginLogRepository(db),
		}, nil
	}
}

func (c *Container) initServices() {
	cfg := c.Config
	c.Tokens = service.NewJWTTokenService(cfg.UserJWT)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo, c.Tokens)
	c.CartService = service.NewCartService(
		c.CartRepo,
		c.Store,
		time.Duration(cfg.Cart.IdempotencyTTLSeconds)*time.Second,
	)
	c.ProductService = service.NewProductService(
		c.ProductRepo,
		c.Store,
		time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second,
	)
	var enqueuer service.LoginLogEnqueuer
	if c.QueueClient != nil {
		enqueuer = c.QueueClient
	}
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo, enqueuer)
}
