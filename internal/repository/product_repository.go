package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(ctx context.Context, filter ProductListFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, products []models.Product) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// List 商品列表（按 ID 升序），分类精确匹配（忽略大小写），关键词匹配名称与描述
func (r *GormProductRepository) List(ctx context.Context, filter ProductListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name", "description"})
		query = query.Where(condition, repeatLikeArgs(likePattern(search), argCount)...)
	}
	var products []models.Product
	if err := query.Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Count 商品总数
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CreateBatch 批量写入商品（事务内）
func (r *GormProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return normalizeWriteError(err)
			}
		}
		return nil
	})
}
