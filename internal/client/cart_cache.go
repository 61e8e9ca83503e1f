package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartAPI 购物车远端接口
type CartAPI interface {
	GetCart(ctx context.Context, token string) (models.CartItems, error)
	UpsertItem(ctx context.Context, token string, item models.CartItem, idempotencyKey string) (*models.Cart, error)
	SetQuantity(ctx context.Context, token string, productID uint, quantity int) (models.CartItems, error)
	RemoveItem(ctx context.Context, token string, productID uint) (models.CartItems, error)
	ClearCart(ctx context.Context, token string) error
}

// CartCache 当前用户购物车的本地镜像
// 说明：每次修改都先请求服务端，成功后用服务端返回的列表整体替换本地状态。
type CartCache struct {
	api     CartAPI
	session *Session
	log     *zap.SugaredLogger

	// ops 串行化所有远端调用
	ops sync.Mutex

	mu    sync.RWMutex
	items models.CartItems
	// generation 身份每变化一次递增，用于丢弃过期响应
	generation uint64

	loading     atomic.Bool
	unsubscribe func()

	// generationRead 测试钩子，在读取代数之后、读取令牌之前调用
	generationRead func()
}

// NewCartCache 创建购物车镜像并订阅会话变化
func NewCartCache(api CartAPI, session *Session) *CartCache {
	c := &CartCache{
		api:     api,
		session: session,
		log:     logger.SW("component", "cart_cache"),
		items:   models.CartItems{},
	}
	if session != nil {
		c.unsubscribe = session.Subscribe(c.onIdentityChange)
	}
	return c
}

// Close 取消会话订阅
func (c *CartCache) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *CartCache) onIdentityChange(ctx context.Context, identity *Identity) {
	c.mu.Lock()
	c.generation++
	c.items = models.CartItems{}
	c.mu.Unlock()

	if identity == nil || identity.Token == "" {
		return
	}
	if err := c.Refresh(ctx); err != nil {
		c.log.Warnw("cart_cache_initial_fetch_failed", "user_id", identity.User.ID, "error", err)
	}
}

// Refresh 从服务端拉取完整购物车并整体替换本地状态
func (c *CartCache) Refresh(ctx context.Context) error {
	return c.mutate(ctx, "fetch", func(ctx context.Context, token string) (models.CartItems, error) {
		c.loading.Store(true)
		defer c.loading.Store(false)
		return c.api.GetCart(ctx, token)
	})
}

// AddToCart 加入商品（数量累加），quantity <= 0 时按 1 处理
func (c *CartCache) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	item := product.ToCartItem(quantity)
	key := uuid.NewString()
	return c.mutate(ctx, "add", func(ctx context.Context, token string) (models.CartItems, error) {
		cart, err := c.api.UpsertItem(ctx, token, item, key)
		if err != nil {
			return nil, err
		}
		return cart.Items, nil
	})
}

// UpdateQuantity 设置商品数量，0 表示移除
func (c *CartCache) UpdateQuantity(ctx context.Context, productID uint, quantity int) error {
	return c.mutate(ctx, "update_quantity", func(ctx context.Context, token string) (models.CartItems, error) {
		return c.api.SetQuantity(ctx, token, productID, quantity)
	})
}

// Increment 数量加一
func (c *CartCache) Increment(ctx context.Context, productID uint) error {
	item, ok := c.Item(productID)
	if !ok {
		return fmt.Errorf("product %d not in cart", productID)
	}
	return c.UpdateQuantity(ctx, productID, item.Quantity+1)
}

// Decrement 数量减一，减到 0 时由服务端移除
func (c *CartCache) Decrement(ctx context.Context, productID uint) error {
	item, ok := c.Item(productID)
	if !ok {
		return fmt.Errorf("product %d not in cart", productID)
	}
	return c.UpdateQuantity(ctx, productID, item.Quantity-1)
}

// RemoveFromCart 移除商品
func (c *CartCache) RemoveFromCart(ctx context.Context, productID uint) error {
	return c.mutate(ctx, "remove", func(ctx context.Context, token string) (models.CartItems, error) {
		return c.api.RemoveItem(ctx, token, productID)
	})
}

// ClearCart 清空购物车，服务端成功后本地置空
func (c *CartCache) ClearCart(ctx context.Context) error {
	return c.mutate(ctx, "clear", func(ctx context.Context, token string) (models.CartItems, error) {
		if err := c.api.ClearCart(ctx, token); err != nil {
			return nil, err
		}
		return models.CartItems{}, nil
	})
}

// Items 返回当前商品列表副本
func (c *CartCache) Items() models.CartItems {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Clone()
}

// Item 查找单个商品
func (c *CartCache) Item(productID uint) (models.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.items.IndexOf(productID)
	if idx < 0 {
		return models.CartItem{}, false
	}
	return c.items.Clone()[idx], true
}

// Loading 是否正在拉取购物车
func (c *CartCache) Loading() bool {
	return c.loading.Load()
}

// TotalItems 商品件数合计
func (c *CartCache) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.TotalQuantity()
}

// TotalPrice 金额合计
func (c *CartCache) TotalPrice() models.Money {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.TotalPrice()
}

// TotalPriceString 金额合计（两位小数）
func (c *CartCache) TotalPriceString() string {
	return c.TotalPrice().String()
}

func (c *CartCache) mutate(ctx context.Context, op string, call func(ctx context.Context, token string) (models.CartItems, error)) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	if c.api == nil || c.session == nil {
		return fmt.Errorf("cart cache not initialized")
	}
	// 先取代数再取令牌：两次读取之间发生的登出要么清空令牌，要么改变代数
	c.mu.RLock()
	generation := c.generation
	c.mu.RUnlock()
	if c.generationRead != nil {
		c.generationRead()
	}

	token := c.session.Token()
	if token == "" {
		c.log.Warnw("cart_cache_unauthenticated", "op", op)
		return ErrUnauthenticated
	}

	items, err := call(ctx, token)
	if err != nil {
		c.log.Warnw("cart_cache_op_failed", "op", op, "status", StatusOf(err), "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.log.Debugw("cart_cache_stale_response_dropped", "op", op)
		return nil
	}
	if items == nil {
		items = models.CartItems{}
	}
	c.items = items.Clone()
	return nil
}
