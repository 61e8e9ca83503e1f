package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口（每个用户一条购物车文档）
type CartRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetByUser 获取用户购物车，不存在时返回 nil
func (r *GormCartRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	return &cart, nil
}

// Save 按 user_id 写入整份购物车（不存在则创建）
func (r *GormCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	if cart.ID != 0 {
		return r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
			"items":      cart.Items,
			"updated_at": cart.UpdatedAt,
		}).Error
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(cart).Error
}
