package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

const defaultIdempotencyTTL = 10 * time.Minute

// CartService 购物车服务
// 每个写操作都是一次完整的读-改-写，同一进程内按用户串行化。
type CartService struct {
	cartRepo       repository.CartRepository
	store          cache.JSONStore
	idempotencyTTL time.Duration
	locks          *keyedMutex
}

// NewCartService 创建购物车服务，store 为空时不启用幂等键
func NewCartService(cartRepo repository.CartRepository, store cache.JSONStore, idempotencyTTL time.Duration) *CartService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = defaultIdempotencyTTL
	}
	return &CartService{
		cartRepo:       cartRepo,
		store:          store,
		idempotencyTTL: idempotencyTTL,
		locks:          newKeyedMutex(),
	}
}

// GetCart 获取用户购物车项，无购物车时返回空列表
func (s *CartService) GetCart(ctx context.Context, userID string) (models.CartItems, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return models.CartItems{}, nil
	}
	return cart.Items, nil
}

// UpsertItem 加购：已存在的商品累加数量，否则追加；requestID 非空时同一键只生效一次
func (s *CartService) UpsertItem(ctx context.Context, userID string, item models.CartItem, requestID string) (*models.Cart, error) {
	if strings.TrimSpace(userID) == "" || item.ProductID == 0 || item.Price.IsNegative() {
		return nil, ErrInvalidInput
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	requestID = strings.TrimSpace(requestID)
	if requestID != "" && s.store != nil {
		var applied idempotencyRecord
		hit, err := s.store.GetJSON(ctx, idempotencyKey(userID, requestID), &applied)
		if err != nil {
			logger.Warnw("cart_idempotency_lookup_failed", "user_id", userID, "request_id", requestID, "error", err)
		} else if hit {
			return s.currentCart(ctx, userID)
		}
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: models.CartItems{item}}
	} else if idx := cart.Items.IndexOf(item.ProductID); idx >= 0 {
		cart.Items[idx].Quantity += item.Quantity
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	if requestID != "" && s.store != nil {
		record := idempotencyRecord{AppliedAt: time.Now()}
		if err := s.store.SetJSON(ctx, idempotencyKey(userID, requestID), record, s.idempotencyTTL); err != nil {
			logger.Warnw("cart_idempotency_store_failed", "user_id", userID, "request_id", requestID, "error", err)
		}
	}
	return cart, nil
}

// SetQuantity 覆盖数量；0 表示移除
func (s *CartService) SetQuantity(ctx context.Context, userID string, productID uint, quantity int) (models.CartItems, error) {
	if strings.TrimSpace(userID) == "" || productID == 0 || quantity < 0 {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	idx := cart.Items.IndexOf(productID)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	if quantity == 0 {
		cart.Items = cart.Items.Without(productID)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// RemoveItem 移除商品；商品不在购物车中时静默成功
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID uint) (models.CartItems, error) {
	if strings.TrimSpace(userID) == "" || productID == 0 {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	cart.Items = cart.Items.Without(productID)

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// ClearCart 清空购物车，保留购物车文档
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	cart.Items = models.CartItems{}
	return s.cartRepo.Save(ctx, cart)
}

// idempotencyRecord 幂等键已生效的标记
type idempotencyRecord struct {
	AppliedAt time.Time `json:"appliedAt"`
}

// currentCart 幂等重放时返回当前购物车，而非首次请求时的快照
func (s *CartService) currentCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{UserID: userID, Items: models.CartItems{}}, nil
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	return cart, nil
}

func idempotencyKey(userID, requestID string) string {
	return fmt.Sprintf("cart:idem:%s:%s", userID, requestID)
}
