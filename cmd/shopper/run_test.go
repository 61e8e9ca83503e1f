package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/catalog"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/router"

	"github.com/gin-gonic/gin"
)

func newShopperServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "debug"},
		UserJWT:  config.JWTConfig{SecretKey: "shopper-test-secret", ExpireHours: 1},
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

func testShopperConfig(url string) shopperConfig {
	return shopperConfig{
		APIURL:     url,
		Timeout:    5 * time.Second,
		Name:       "Ana",
		Email:      "ana@test.com",
		Password:   "secret123",
		Register:   true,
		ProductIDs: []uint{2, 2},
		Shipping:   "express",
		Address:    "1 Main St",
		City:       "Springfield",
		ZipCode:    "12345",
		CardNumber: "4242424242424242",
		CardExpiry: "1230",
		CardCVV:    "123",
	}
}

func TestRunCompletesCheckout(t *testing.T) {
	srv := newShopperServer(t)
	cfg := testShopperConfig(srv.URL)

	var out bytes.Buffer
	if err := runWith(context.Background(), cfg, srv.Client(), &out); err != nil {
		t.Fatalf("run failed: %v\n%s", err, out.String())
	}
	text := out.String()
	for _, want := range []string{
		"Signed in as Ana <ana@test.com>",
		"Cart: 2 item(s), $49.98",
		"subtotal $49.98, Express Shipping $15.00, total $64.98",
		"Cart now has 0 item(s)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	// 再次运行走登录分支
	out.Reset()
	cfg.ProductIDs = []uint{1}
	cfg.Shipping = "standard"
	if err := runWith(context.Background(), cfg, srv.Client(), &out); err != nil {
		t.Fatalf("second run failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "total $129.99") {
		t.Fatalf("unexpected second run output:\n%s", out.String())
	}
}

func TestRunUnknownProduct(t *testing.T) {
	srv := newShopperServer(t)
	cfg := testShopperConfig(srv.URL)
	cfg.ProductIDs = []uint{42}
	err := runWith(context.Background(), cfg, srv.Client(), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "product 42") {
		t.Fatalf("want unknown product error, got %v", err)
	}
}

func TestRunWrongPassword(t *testing.T) {
	srv := newShopperServer(t)
	cfg := testShopperConfig(srv.URL)
	if err := runWith(context.Background(), cfg, srv.Client(), &bytes.Buffer{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	cfg.Password = "wrong-password"
	err := runWith(context.Background(), cfg, srv.Client(), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "login") {
		t.Fatalf("want login error, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SHOPPER_EMAIL", "ana@test.com")
	t.Setenv("SHOPPER_PASSWORD", "secret123")
	t.Setenv("SHOPPER_PRODUCT_IDS", "1,3")
	t.Setenv("SHOPPER_TIMEOUT", "3s")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" || cfg.Timeout != 3*time.Second || cfg.Shipping != "standard" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.ProductIDs) != 2 || cfg.ProductIDs[1] != 3 {
		t.Fatalf("unexpected product ids: %v", cfg.ProductIDs)
	}

	t.Setenv("SHOPPER_PRODUCT_IDS", "0")
	if _, err := loadConfig(); err == nil {
		t.Fatalf("product id 0 should be rejected")
	}
}
