package service

import "errors"

var (
	// ErrInvalidInput 参数缺失或非法
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidEmail 邮箱格式错误
	ErrInvalidEmail = errors.New("invalid email")
	// ErrWeakPassword 密码不满足策略
	ErrWeakPassword = errors.New("weak password")
	// ErrEmailExists 邮箱已注册
	ErrEmailExists = errors.New("user already exists")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid 令牌缺失、过期或签名无效
	ErrTokenInvalid = errors.New("invalid token")
	// ErrCartNotFound 用户尚无购物车
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound 购物车中无此商品
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
)
