package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/catalog"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/router"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "debug"},
		UserJWT:  config.JWTConfig{SecretKey: "client-test-secret", ExpireHours: 1},
		Cart:     config.CartConfig{IdempotencyTTLSeconds: 60},
		Catalog:  config.CatalogConfig{CacheTTLSeconds: 60},
		Checkout: config.CheckoutConfig{StandardShippingCost: "0.00", ExpressShippingCost: "15.00"},
	}
	container := provider.Build(cfg, provider.MemoryRepositories(), nil, cache.NewMemoryStore())
	if _, err := container.ProductService.EnsureSeeded(context.Background(), catalog.DefaultProducts()); err != nil {
		t.Fatalf("seed catalog failed: %v", err)
	}
	srv := httptest.NewServer(router.SetupRouter(cfg, container))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *APIClient {
	t.Helper()
	srv := newTestServer(t)
	return NewAPIClient(Options{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
}

func mustRegister(t *testing.T, api *APIClient, email string) *AuthResponse {
	t.Helper()
	resp, err := api.Register(context.Background(), "Ana", email, "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token")
	}
	return resp
}

func TestAPIClientAuthFlow(t *testing.T) {
	api := newTestClient(t)
	ctx := context.Background()

	registered := mustRegister(t, api, "Ana@Test.com")
	if registered.User.Email != "ana@test.com" {
		t.Fatalf("email should be normalized, got %s", registered.User.Email)
	}

	_, err := api.Register(ctx, "Ana", "ana@test.com", "secret123")
	if StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("duplicate register want 400, got %v", err)
	}

	_, err = api.Login(ctx, "ana@test.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("wrong password want 401, got %v", err)
	}
	if apiErr.Message != "invalid credentials" {
		t.Fatalf("unexpected message: %s", apiErr.Message)
	}

	logged, err := api.Login(ctx, "ana@test.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	me, err := api.Me(ctx, logged.Token)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if me.ID != registered.User.ID {
		t.Fatalf("me id mismatch: %s vs %s", me.ID, registered.User.ID)
	}

	if _, err := api.Me(ctx, "bogus"); StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("bogus token want 401, got %v", err)
	}
}

func TestAPIClientCatalogAndConfig(t *testing.T) {
	api := newTestClient(t)
	ctx := context.Background()

	products, err := api.Products(ctx)
	if err != nil {
		t.Fatalf("products failed: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("want 6 products, got %d", len(products))
	}
	if products[0].Price.String() != "129.99" {
		t.Fatalf("unexpected price: %s", products[0].Price)
	}

	options, err := api.ShippingOptions(ctx)
	if err != nil {
		t.Fatalf("shipping options failed: %v", err)
	}
	if len(options) != 2 || options[1].Cost.String() != "15.00" {
		t.Fatalf("unexpected shipping options: %+v", options)
	}
}

func TestAPIClientCartCalls(t *testing.T) {
	api := newTestClient(t)
	ctx := context.Background()
	token := mustRegister(t, api, "cart@test.com").Token

	items, err := api.GetCart(ctx, token)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", items)
	}

	if err := api.ClearCart(ctx, token); StatusOf(err) != http.StatusNotFound {
		t.Fatalf("clear without cart want 404, got %v", err)
	}

	products, err := api.Products(ctx)
	if err != nil {
		t.Fatalf("products failed: %v", err)
	}
	cart, err := api.UpsertItem(ctx, token, products[1].ToCartItem(2), "key-1")
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", cart.Items)
	}
	// 相同幂等键重放不重复累加
	cart, err = api.UpsertItem(ctx, token, products[1].ToCartItem(2), "key-1")
	if err != nil {
		t.Fatalf("replay upsert failed: %v", err)
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("replay should not add quantity, got %d", cart.Items[0].Quantity)
	}

	items, err = api.SetQuantity(ctx, token, products[1].ID, 5)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if items[0].Quantity != 5 {
		t.Fatalf("want quantity 5, got %d", items[0].Quantity)
	}

	if _, err := api.SetQuantity(ctx, token, 999, 1); StatusOf(err) != http.StatusNotFound {
		t.Fatalf("unknown product want 404, got %v", err)
	}

	items, err = api.RemoveItem(ctx, token, products[1].ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty after remove, got %+v", items)
	}

	if err := api.ClearCart(ctx, token); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
}

func TestAPIClientRequiresToken(t *testing.T) {
	api := newTestClient(t)
	_, err := api.GetCart(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.RequestID == "" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}
