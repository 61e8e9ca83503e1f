package repository

import "strings"

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page     int
	PageSize int
	UserID   string
	Status   string
}

// ProductListFilter 商品列表过滤条件，字段为空表示不过滤
type ProductListFilter struct {
	Category string
	Search   string
}

// IsZero 是否未设置任何过滤条件
func (f ProductListFilter) IsZero() bool {
	return strings.TrimSpace(f.Category) == "" && strings.TrimSpace(f.Search) == ""
}
