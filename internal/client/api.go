// Package client 店铺 REST API 客户端与购物车本地镜像
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
)

const defaultTimeout = 10 * time.Second

// ErrUnauthenticated 未登录时调用需鉴权接口
var ErrUnauthenticated = errors.New("not authenticated")

// APIError 服务端返回的错误响应
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("api error %d: %s (request_id=%s)", e.Status, e.Message, e.RequestID)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// StatusOf 返回错误携带的 HTTP 状态码，非 APIError 时返回 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// User 登录用户信息
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Options 客户端配置
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Language 作为 Accept-Language 发送
	Language string
}

// APIClient 店铺 REST API 客户端
type APIClient struct {
	baseURL  string
	http     *http.Client
	language string
}

// NewAPIClient 创建 API 客户端
func NewAPIClient(opts Options) *APIClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &APIClient{
		baseURL:  strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http:     httpClient,
		language: strings.TrimSpace(opts.Language),
	}
}

// Register 注册
func (c *APIClient) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login 登录
func (c *APIClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me 获取令牌对应的用户
func (c *APIClient) Me(ctx context.Context, token string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Products 获取商品目录
func (c *APIClient) Products(ctx context.Context) ([]models.Product, error) {
	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ShippingOptions 获取配送方式
func (c *APIClient) ShippingOptions(ctx context.Context) ([]models.ShippingOption, error) {
	var resp struct {
		ShippingOptions []models.ShippingOption `json:"shippingOptions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/config", "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ShippingOptions, nil
}

// GetCart 获取购物车
func (c *APIClient) GetCart(ctx context.Context, token string) (models.CartItems, error) {
	var resp struct {
		Items models.CartItems `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cart", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return nonNilItems(resp.Items), nil
}

// UpsertItem 加入购物车；idempotencyKey 非空时随请求发送
func (c *APIClient) UpsertItem(ctx context.Context, token string, item models.CartItem, idempotencyKey string) (*models.Cart, error) {
	var resp struct {
		Cart models.Cart `json:"cart"`
	}
	var headers map[string]string
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		headers = map[string]string{constants.HeaderIdempotencyKey: key}
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart", token, headers, map[string]interface{}{"item": item}, &resp); err != nil {
		return nil, err
	}
	resp.Cart.Items = nonNilItems(resp.Cart.Items)
	return &resp.Cart, nil
}

// SetQuantity 设置商品数量
func (c *APIClient) SetQuantity(ctx context.Context, token string, productID uint, quantity int) (models.CartItems, error) {
	var resp struct {
		Items models.CartItems `json:"items"`
	}
	path := "/api/cart/" + strconv.FormatUint(uint64(productID), 10)
	if err := c.do(ctx, http.MethodPut, path, token, nil, map[string]int{"quantity": quantity}, &resp); err != nil {
		return nil, err
	}
	return nonNilItems(resp.Items), nil
}

// RemoveItem 移除商品
func (c *APIClient) RemoveItem(ctx context.Context, token string, productID uint) (models.CartItems, error) {
	var resp struct {
		Items models.CartItems `json:"items"`
	}
	path := "/api/cart/" + strconv.FormatUint(uint64(productID), 10)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return nonNilItems(resp.Items), nil
}

// ClearCart 清空购物车
func (c *APIClient) ClearCart(ctx context.Context, token string) error {
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/cart", token, nil, nil, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("clear cart: unexpected response")
	}
	return nil
}

func (c *APIClient) do(ctx context.Context, method, path, token string, headers map[string]string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.HeaderClient, constants.LoginLogSourceCLI)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get("X-Request-ID")}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(payload, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if dest == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func nonNilItems(items models.CartItems) models.CartItems {
	if items == nil {
		return models.CartItems{}
	}
	return items
}
