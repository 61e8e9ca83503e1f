package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// ErrDuplicate 唯一约束冲突（邮箱、用户购物车等）
var ErrDuplicate = errors.New("duplicate record")

// normalizeWriteError 将各驱动的唯一约束错误统一为 ErrDuplicate
func normalizeWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateError(err) {
		return ErrDuplicate
	}
	return err
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || mongo.IsDuplicateKeyError(err) {
		return true
	}
	// sqlite: UNIQUE constraint failed；postgres: duplicate key value violates unique constraint
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value")
}
