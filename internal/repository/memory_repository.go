package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dujiao-next/storefront/internal/models"
)

// MemoryUserRepository 内存实现（测试与本地演示）
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

// NewMemoryUserRepository 创建内存用户仓库
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// GetByEmail 根据邮箱获取用户
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	user := r.byID[id]
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Create 创建用户，邮箱冲突返回 ErrDuplicate
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	if user == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicate
	}
	if _, exists := r.byID[user.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// TouchLastLogin 更新最后登录时间
func (r *MemoryUserRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil
	}
	user.LastLoginAt = &at
	r.byID[id] = user
	return nil
}

// MemoryCartRepository 内存实现，读写均复制商品项
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

// NewMemoryCartRepository 创建内存购物车仓库
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string]models.Cart)}
}

// GetByUser 获取用户购物车，不存在时返回 nil
func (r *MemoryCartRepository) GetByUser(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cart.Items = cart.Items.Clone()
	return &cart, nil
}

// Save 按 userID 写入整份购物车
func (r *MemoryCartRepository) Save(_ context.Context, cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if existing, ok := r.carts[cart.UserID]; ok {
		cart.CreatedAt = existing.CreatedAt
	} else if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	stored := *cart
	stored.Items = cart.Items.Clone()
	r.carts[cart.UserID] = stored
	return nil
}

// MemoryProductRepository 内存实现
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint]models.Product
}

// NewMemoryProductRepository 创建内存商品仓库
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[uint]models.Product)}
}

// List 商品列表（按 ID 升序）
func (r *MemoryProductRepository) List(_ context.Context, filter ProductListFilter) ([]models.Product, error) {
	category := strings.TrimSpace(filter.Category)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	r.mu.RLock()
	defer r.mu.RUnlock()
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		if category != "" && !strings.EqualFold(product.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) &&
			!strings.Contains(strings.ToLower(product.Description), search) {
			continue
		}
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetByID 根据 ID 获取商品
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Count 商品总数
func (r *MemoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// CreateBatch 批量写入商品，ID 冲突时整体失败
func (r *MemoryProductRepository) CreateBatch(_ context.Context, products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range products {
		if _, exists := r.products[product.ID]; exists {
			return ErrDuplicate
		}
	}
	now := time.Now()
	for _, product := range products {
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
		r.products[product.ID] = product
	}
	return nil
}

// MemoryUserLoginLogRepository 内存实现
type MemoryUserLoginLogRepository struct {
	mu     sync.RWMutex
	nextID uint
	logs   []models.UserLoginLog
}

// NewMemoryUserLoginLogRepository 创建内存登录日志仓库
func NewMemoryUserLoginLogRepository() *MemoryUserLoginLogRepository {
	return &MemoryUserLoginLogRepository{}
}

// Create 创建登录日志
func (r *MemoryUserLoginLogRepository) Create(_ context.Context, log *models.UserLoginLog) error {
	if log == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	log.ID = r.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

// List 查询登录日志（ID 倒序）
func (r *MemoryUserLoginLogRepository) List(_ context.Context, filter UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]models.UserLoginLog, 0)
	for i := len(r.logs) - 1; i >= 0; i-- {
		log := r.logs[i]
		if filter.UserID != "" && log.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && log.Status != filter.Status {
			continue
		}
		matched = append(matched, log)
	}
	total := int64(len(matched))
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.UserLoginLog{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
