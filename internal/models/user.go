package models

import "time"

// User 用户表
type User struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`  // 主键（UUID）
	Name         string     `gorm:"type:varchar(255);not null" json:"name"` // 姓名
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`      // 邮箱（唯一）
	PasswordHash string     `gorm:"not null" json:"-"`                      // 密码哈希（不返回给前端）
	LastLoginAt  *time.Time `json:"-"`                                      // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"-"`                         // 创建时间
	UpdatedAt    time.Time  `json:"-"`                                      // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
