package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const userLoginLogCollection = "user_login_logs"

type mongoUserLoginLog struct {
	UserID      string    `bson:"user_id"`
	Email       string    `bson:"email"`
	Status      string    `bson:"status"`
	FailReason  string    `bson:"fail_reason"`
	ClientIP    string    `bson:"client_ip"`
	UserAgent   string    `bson:"user_agent"`
	LoginSource string    `bson:"login_source"`
	RequestID   string    `bson:"request_id"`
	CreatedAt   time.Time `bson:"created_at"`
}

// MongoUserLoginLogRepository MongoDB 实现
type MongoUserLoginLogRepository struct {
	collection *mongo.Collection
}

// NewMongoUserLoginLogRepository 创建登录日志仓库并建立查询索引
func NewMongoUserLoginLogRepository(ctx context.Context, db *mongo.Database) (*MongoUserLoginLogRepository, error) {
	collection := db.Collection(userLoginLogCollection)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create login log indexes: %w", err)
	}
	return &MongoUserLoginLogRepository{collection: collection}, nil
}

// Create 创建登录日志
func (r *MongoUserLoginLogRepository) Create(ctx context.Context, log *models.UserLoginLog) error {
	if log == nil {
		return nil
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, mongoUserLoginLog{
		UserID:      log.UserID,
		Email:       log.Email,
		Status:      log.Status,
		FailReason:  log.FailReason,
		ClientIP:    log.ClientIP,
		UserAgent:   log.UserAgent,
		LoginSource: log.LoginSource,
		RequestID:   log.RequestID,
		CreatedAt:   log.CreatedAt,
	})
	return err
}

// List 查询登录日志，按时间倒序（文档库不分配自增 ID）
func (r *MongoUserLoginLogRepository) List(ctx context.Context, filter UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	logs := make([]models.UserLoginLog, 0)
	for cursor.Next(ctx) {
		var doc mongoUserLoginLog
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		logs = append(logs, models.UserLoginLog{
			UserID:      doc.UserID,
			Email:       doc.Email,
			Status:      doc.Status,
			FailReason:  doc.FailReason,
			ClientIP:    doc.ClientIP,
			UserAgent:   doc.UserAgent,
			LoginSource: doc.LoginSource,
			RequestID:   doc.RequestID,
			CreatedAt:   doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
