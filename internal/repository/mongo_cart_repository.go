package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const cartCollection = "carts"

// 金额以字符串存储，保留 2 位小数
type mongoCartItem struct {
	ProductID     int64    `bson:"id"`
	Name          string   `bson:"name"`
	Price         string   `bson:"price"`
	OriginalPrice *string  `bson:"original_price,omitempty"`
	Rating        *float64 `bson:"rating,omitempty"`
	Reviews       *int     `bson:"reviews,omitempty"`
	Image         string   `bson:"image,omitempty"`
	Category      string   `bson:"category,omitempty"`
	Description   string   `bson:"description,omitempty"`
	Quantity      int      `bson:"quantity"`
}

type mongoCart struct {
	UserID    string          `bson:"user_id"`
	Items     []mongoCartItem `bson:"items"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

func toMongoCartItems(items models.CartItems) []mongoCartItem {
	result := make([]mongoCartItem, 0, len(items))
	for _, item := range items {
		doc := mongoCartItem{
			ProductID:   int64(item.ProductID),
			Name:        item.Name,
			Price:       item.Price.String(),
			Rating:      item.Rating,
			Reviews:     item.Reviews,
			Image:       item.Image,
			Category:    item.Category,
			Description: item.Description,
			Quantity:    item.Quantity,
		}
		if item.OriginalPrice != nil {
			original := item.OriginalPrice.String()
			doc.OriginalPrice = &original
		}
		result = append(result, doc)
	}
	return result
}

func (c mongoCart) toModel() (*models.Cart, error) {
	items := make(models.CartItems, 0, len(c.Items))
	for _, doc := range c.Items {
		price, err := models.NewMoneyFromString(doc.Price)
		if err != nil {
			return nil, fmt.Errorf("decode cart item %d price: %w", doc.ProductID, err)
		}
		item := models.CartItem{
			ProductID:   uint(doc.ProductID),
			Name:        doc.Name,
			Price:       price,
			Rating:      doc.Rating,
			Reviews:     doc.Reviews,
			Image:       doc.Image,
			Category:    doc.Category,
			Description: doc.Description,
			Quantity:    doc.Quantity,
		}
		if doc.OriginalPrice != nil {
			original, err := models.NewMoneyFromString(*doc.OriginalPrice)
			if err != nil {
				return nil, fmt.Errorf("decode cart item %d original price: %w", doc.ProductID, err)
			}
			item.OriginalPrice = &original
		}
		items = append(items, item)
	}
	return &models.Cart{
		UserID:    c.UserID,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// MongoCartRepository MongoDB 实现
type MongoCartRepository struct {
	collection *mongo.Collection
}

// NewMongoCartRepository 创建购物车仓库并确保 user_id 唯一索引
func NewMongoCartRepository(ctx context.Context, db *mongo.Database) (*MongoCartRepository, error) {
	collection := db.Collection(cartCollection)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create cart indexes: %w", err)
	}
	return &MongoCartRepository{collection: collection}, nil
}

// GetByUser 获取用户购物车，不存在时返回 nil
func (r *MongoCartRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var doc mongoCart
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel()
}

// Save 按 user_id upsert 整份购物车
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	update := bson.M{
		"$set": bson.M{
			"items":      toMongoCartItems(cart.Items),
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": cart.CreatedAt},
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": cart.UserID},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	return normalizeWriteError(err)
}
