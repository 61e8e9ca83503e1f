package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenExpireHours = 168

// Identity 令牌携带的用户身份
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityOf 从用户模型提取身份
func IdentityOf(user *models.User) Identity {
	if user == nil {
		return Identity{}
	}
	return Identity{ID: user.ID, Email: user.Email, Name: user.Name}
}

// TokenSigner 签发令牌
type TokenSigner interface {
	Sign(identity Identity) (string, time.Time, error)
}

// TokenVerifier 校验令牌
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// JWTTokenService HS256 无状态令牌
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService 创建令牌服务
func NewJWTTokenService(cfg config.JWTConfig) *JWTTokenService {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = defaultTokenExpireHours
	}
	return &JWTTokenService{
		secret: []byte(cfg.SecretKey),
		ttl:    time.Duration(hours) * time.Hour,
		now:    time.Now,
	}
}

// Sign 生成用户 JWT Token
func (s *JWTTokenService) Sign(identity Identity) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret not configured")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := UserJWTClaims{
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify 解析用户 JWT Token
func (s *JWTTokenService) Verify(tokenString string) (*Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || len(s.secret) == 0 {
		return nil, ErrTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrTokenInvalid
	}
	return &Identity{ID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}
