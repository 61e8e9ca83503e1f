package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/catalog"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

type countingProductRepo struct {
	*repository.MemoryProductRepository
	listCalls int
}

func (r *countingProductRepo) List(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, error) {
	r.listCalls++
	return r.MemoryProductRepository.List(ctx, filter)
}

func TestProductServiceEnsureSeededOnlyOnce(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	svc := NewProductService(repo, nil, 0)
	ctx := context.Background()

	inserted, err := svc.EnsureSeeded(ctx, catalog.DefaultProducts())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if inserted != 6 {
		t.Fatalf("inserted want 6 got %d", inserted)
	}
	inserted, err = svc.EnsureSeeded(ctx, catalog.DefaultProducts())
	if err != nil || inserted != 0 {
		t.Fatalf("second seed should be a no-op, got %d %v", inserted, err)
	}

	products, err := svc.List(ctx, repository.ProductListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 6 || products[0].Name != "Wireless Bluetooth Headphones" {
		t.Fatalf("unexpected catalog: %+v", products)
	}
	if products[4].Price.String() != "45.99" {
		t.Fatalf("wallet price want 45.99 got %s", products[4].Price.String())
	}
}

func TestProductServiceListUsesCache(t *testing.T) {
	repo := &countingProductRepo{MemoryProductRepository: repository.NewMemoryProductRepository()}
	svc := NewProductService(repo, cache.NewMemoryStore(), time.Minute)
	ctx := context.Background()
	if _, err := svc.EnsureSeeded(ctx, catalog.DefaultProducts()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		products, err := svc.List(ctx, repository.ProductListFilter{})
		if err != nil || len(products) != 6 {
			t.Fatalf("list failed: %d %v", len(products), err)
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("repository list calls want 1 got %d", repo.listCalls)
	}

	// 带过滤条件的查询不读写缓存
	for i := 0; i < 2; i++ {
		products, err := svc.List(ctx, repository.ProductListFilter{Category: "Electronics"})
		if err != nil || len(products) == 0 || len(products) == 6 {
			t.Fatalf("filtered list failed: %d %v", len(products), err)
		}
	}
	if repo.listCalls != 3 {
		t.Fatalf("repository list calls want 3 got %d", repo.listCalls)
	}
	products, _ := svc.List(ctx, repository.ProductListFilter{})
	if len(products) != 6 || repo.listCalls != 3 {
		t.Fatalf("full catalog should still come from cache")
	}
}

func TestProductServiceGetByID(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	svc := NewProductService(repo, nil, 0)
	ctx := context.Background()
	_, _ = svc.EnsureSeeded(ctx, catalog.DefaultProducts())

	product, err := svc.GetByID(ctx, 3)
	if err != nil || product.Name != "Smart Fitness Watch" {
		t.Fatalf("get product failed: %+v %v", product, err)
	}
	if _, err := svc.GetByID(ctx, 99); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
}
