package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dujiao-next/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateSchema(db); err != nil {
		t.Fatalf("migrate schema failed: %v", err)
	}
	return db
}

func TestGormCartRepositorySaveAndReload(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t))
	ctx := context.Background()

	cart, err := repo.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get missing cart failed: %v", err)
	}
	if cart != nil {
		t.Fatalf("missing cart should be nil, got %+v", cart)
	}

	original := models.MustMoney("79.99")
	created := &models.Cart{
		UserID: "user-1",
		Items: models.CartItems{
			{ProductID: 5, Name: "Leather Wallet", Price: models.MustMoney("45.99"), OriginalPrice: &original, Quantity: 1},
		},
	}
	if err := repo.Save(ctx, created); err != nil {
		t.Fatalf("save new cart failed: %v", err)
	}

	loaded, err := repo.GetByUser(ctx, "user-1")
	if err != nil || loaded == nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].ProductID != 5 {
		t.Fatalf("unexpected items: %+v", loaded.Items)
	}
	if loaded.Items[0].OriginalPrice == nil || loaded.Items[0].OriginalPrice.String() != "79.99" {
		t.Fatalf("original price not preserved: %+v", loaded.Items[0].OriginalPrice)
	}

	loaded.Items[0].Quantity = 3
	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatalf("save existing cart failed: %v", err)
	}
	reloaded, err := repo.GetByUser(ctx, "user-1")
	if err != nil || reloaded == nil {
		t.Fatalf("reload updated cart failed: %v", err)
	}
	if reloaded.Items[0].Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", reloaded.Items[0].Quantity)
	}
}

func TestGormCartRepositoryUpsertByUserID(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	if err := repo.Save(ctx, &models.Cart{UserID: "user-2", Items: models.CartItems{{ProductID: 1, Quantity: 1}}}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	// 未携带主键的再次写入应覆盖同一用户的购物车
	if err := repo.Save(ctx, &models.Cart{UserID: "user-2", Items: models.CartItems{}}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", "user-2").Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cart rows want 1 got %d", count)
	}
	cart, err := repo.GetByUser(ctx, "user-2")
	if err != nil || cart == nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cleared cart should be empty, got %+v", cart.Items)
	}
}

func TestGormUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(openRepositoryTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &models.User{ID: "u-1", Name: "A", Email: "a@x.io", PasswordHash: "h"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	err := repo.Create(ctx, &models.User{ID: "u-2", Name: "B", Email: "a@x.io", PasswordHash: "h"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email want ErrDuplicate got %v", err)
	}

	user, err := repo.GetByEmail(ctx, "a@x.io")
	if err != nil || user == nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("user id want u-1 got %s", user.ID)
	}
	missing, err := repo.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing user should be nil,nil got %+v %v", missing, err)
	}
}

func TestGormProductRepositoryCreateBatchAndList(t *testing.T) {
	repo := NewProductRepository(openRepositoryTestDB(t))
	ctx := context.Background()

	products := []models.Product{
		{ID: 2, Name: "Organic Cotton T-Shirt", Price: models.MustMoney("24.99"), OriginalPrice: models.MustMoney("39.99"), Category: "Clothing", Description: "100% cotton"},
		{ID: 1, Name: "Wireless Bluetooth Headphones", Price: models.MustMoney("129.99"), OriginalPrice: models.MustMoney("199.99"), Category: "Electronics", Description: "Noise cancelling"},
	}
	if err := repo.CreateBatch(ctx, products); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	total, err := repo.Count(ctx)
	if err != nil || total != 2 {
		t.Fatalf("count want 2 got %d (%v)", total, err)
	}
	list, err := repo.List(ctx, ProductListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("list should be ordered by id: %+v", list)
	}

	filters := []struct {
		name   string
		filter ProductListFilter
		want   []uint
	}{
		{name: "category ignores case", filter: ProductListFilter{Category: "clothing"}, want: []uint{2}},
		{name: "search name", filter: ProductListFilter{Search: "HEADPHONES"}, want: []uint{1}},
		{name: "search description", filter: ProductListFilter{Search: "cancel"}, want: []uint{1}},
		{name: "percent is literal", filter: ProductListFilter{Search: "100%"}, want: []uint{2}},
		{name: "no match", filter: ProductListFilter{Category: "Electronics", Search: "cotton"}, want: nil},
	}
	for _, tc := range filters {
		got, err := repo.List(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: list failed: %v", tc.name, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: want %v got %+v", tc.name, tc.want, got)
		}
		for i := range tc.want {
			if got[i].ID != tc.want[i] {
				t.Fatalf("%s: want %v got %+v", tc.name, tc.want, got)
			}
		}
	}
	if list[0].Price.String() != "129.99" {
		t.Fatalf("price want 129.99 got %s", list[0].Price.String())
	}
	product, err := repo.GetByID(ctx, 2)
	if err != nil || product == nil || product.Name != "Organic Cotton T-Shirt" {
		t.Fatalf("get by id failed: %+v %v", product, err)
	}
}

func TestGormUserLoginLogRepositoryListByUser(t *testing.T) {
	repo := NewUserLoginLogRepository(openRepositoryTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, &models.UserLoginLog{UserID: "u-1", Email: "a@x.io", Status: "success"}); err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}
	if err := repo.Create(ctx, &models.UserLoginLog{UserID: "u-2", Email: "b@x.io", Status: "failed"}); err != nil {
		t.Fatalf("create other log failed: %v", err)
	}

	logs, total, err := repo.List(ctx, UserLoginLogListFilter{UserID: "u-1", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(logs) != 2 || logs[0].ID < logs[1].ID {
		t.Fatalf("logs should be paged newest first: %+v", logs)
	}
}
