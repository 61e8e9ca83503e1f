package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// MongoDB 文档库实例（database.driver = mongo 时有效）
var MongoDB *mongo.Database

var mongoClient *mongo.Client

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// NormalizeDriver 统一驱动名称
func NormalizeDriver(driver string) string {
	normalized := strings.ToLower(strings.TrimSpace(driver))
	switch normalized {
	case "", constants.DatabaseDriverSQLite:
		return constants.DatabaseDriverSQLite
	case constants.DatabaseDriverPostgres, "postgresql":
		return constants.DatabaseDriverPostgres
	case constants.DatabaseDriverMongo, "mongodb":
		return constants.DatabaseDriverMongo
	default:
		return normalized
	}
}

// InitDB 初始化数据库连接
func InitDB(driver, dsn string, pool DBPoolConfig) error {
	var err error
	var dialector gorm.Dialector
	switch NormalizeDriver(driver) {
	case constants.DatabaseDriverSQLite:
		// glebarez/sqlite 是基于 modernc.org/sqlite 的纯 Go 驱动
		dialector = sqlite.Open(dsn)
	case constants.DatabaseDriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	return nil
}

// InitMongo 初始化 MongoDB 连接并校验可用性
func InitMongo(ctx context.Context, uri, database string) error {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}
	mongoClient = client
	MongoDB = client.Database(database)
	return nil
}

// CloseMongo 关闭 MongoDB 连接
func CloseMongo(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	err := mongoClient.Disconnect(ctx)
	mongoClient = nil
	MongoDB = nil
	return err
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AutoMigrate 自动迁移所有数据库表
func AutoMigrate() error {
	return MigrateSchema(DB)
}

// MigrateSchema 在指定连接上迁移全部表（测试同样使用）
func MigrateSchema(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return db.AutoMigrate(
		&User{},
		&UserLoginLog{},
		&Product{},
		&Cart{},
	)
}
