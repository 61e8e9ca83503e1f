package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const productCollection = "products"

type mongoProduct struct {
	ID            int64     `bson:"_id"`
	Name          string    `bson:"name"`
	Price         string    `bson:"price"`
	OriginalPrice string    `bson:"original_price"`
	Rating        float64   `bson:"rating"`
	Reviews       int       `bson:"reviews"`
	Image         string    `bson:"image"`
	Category      string    `bson:"category"`
	Description   string    `bson:"description"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (p mongoProduct) toModel() (models.Product, error) {
	price, err := models.NewMoneyFromString(p.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("decode product %d price: %w", p.ID, err)
	}
	original, err := models.NewMoneyFromString(p.OriginalPrice)
	if err != nil {
		return models.Product{}, fmt.Errorf("decode product %d original price: %w", p.ID, err)
	}
	return models.Product{
		ID:            uint(p.ID),
		Name:          p.Name,
		Price:         price,
		OriginalPrice: original,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Image:         p.Image,
		Category:      p.Category,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
	}, nil
}

// MongoProductRepository MongoDB 实现
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository 创建商品仓库
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(productCollection)}
}

// List 商品列表（按 ID 升序）
func (r *MongoProductRepository) List(ctx context.Context, filter ProductListFilter) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, productFilterDocument(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var doc mongoProduct
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		product, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func productFilterDocument(filter ProductListFilter) bson.M {
	doc := bson.M{}
	if category := strings.TrimSpace(filter.Category); category != "" {
		doc["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(category) + "$", "$options": "i"}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		doc["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"description": pattern}}
	}
	return doc
}

// GetByID 根据 ID 获取商品
func (r *MongoProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var doc mongoProduct
	if err := r.collection.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	product, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Count 商品总数
func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CreateBatch 批量写入商品
func (r *MongoProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		p := products[i]
		docs = append(docs, mongoProduct{
			ID:            int64(p.ID),
			Name:          p.Name,
			Price:         p.Price.String(),
			OriginalPrice: p.OriginalPrice.String(),
			Rating:        p.Rating,
			Reviews:       p.Reviews,
			Image:         p.Image,
			Category:      p.Category,
			Description:   p.Description,
			CreatedAt:     p.CreatedAt,
		})
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return normalizeWriteError(err)
}
