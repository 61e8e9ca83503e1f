package service

import (
	"context"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

const productListCacheKey = "catalog:products"

// ProductService 商品目录服务（只读）
type ProductService struct {
	repo     repository.ProductRepository
	store    cache.JSONStore
	cacheTTL time.Duration
}

// NewProductService 创建商品服务，store 为空或 ttl <= 0 时不缓存
func NewProductService(repo repository.ProductRepository, store cache.JSONStore, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		repo:     repo,
		store:    store,
		cacheTTL: cacheTTL,
	}
}

// List 商品列表；仅无过滤条件的完整目录走缓存
func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, error) {
	cacheable := s.cacheEnabled() && filter.IsZero()
	if cacheable {
		var cached []models.Product
		hit, err := s.store.GetJSON(ctx, productListCacheKey, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil {
			logger.Warnw("product_list_cache_get_failed", "error", err)
		}
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	if cacheable {
		if err := s.store.SetJSON(ctx, productListCacheKey, products, s.cacheTTL); err != nil {
			logger.Warnw("product_list_cache_set_failed", "error", err)
		}
	}
	return products, nil
}

// GetByID 获取商品
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// EnsureSeeded 目录为空时写入种子商品，返回写入数量
func (s *ProductService) EnsureSeeded(ctx context.Context, products []models.Product) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 || len(products) == 0 {
		return 0, nil
	}
	if err := s.repo.CreateBatch(ctx, products); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	logger.Infow("catalog_seeded", "count", len(products))
	return len(products), nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Del(ctx, productListCacheKey); err != nil {
		logger.Warnw("product_list_cache_del_failed", "error", err)
	}
}

func (s *ProductService) cacheEnabled() bool {
	return s.store != nil && s.cacheTTL > 0
}
