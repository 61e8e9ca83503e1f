package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/repository"
)

func newUserAuthServiceForTest(policy config.PasswordPolicyConfig) (*UserAuthService, *JWTTokenService) {
	cfg := &config.Config{}
	cfg.Security.PasswordPolicy = policy
	tokens := NewJWTTokenService(config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1})
	return NewUserAuthService(cfg, repository.NewMemoryUserRepository(), tokens), tokens
}

func TestUserAuthServiceRegisterAndDuplicate(t *testing.T) {
	svc, tokens := newUserAuthServiceForTest(config.PasswordPolicyConfig{})
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "p"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Token == "" || result.User.ID == "" {
		t.Fatalf("register should return token and user id: %+v", result)
	}
	identity, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if identity.ID != result.User.ID || identity.Email != "a@x.com" || identity.Name != "A" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	_, err = svc.Register(ctx, RegisterInput{Name: "A2", Email: " A@X.com ", Password: "p"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email want ErrEmailExists got %v", err)
	}
	if ErrEmailExists.Error() != "user already exists" {
		t.Fatalf("unexpected duplicate message: %s", ErrEmailExists.Error())
	}
}

func TestUserAuthServiceRegisterMissingFields(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(config.PasswordPolicyConfig{})
	cases := []RegisterInput{
		{Email: "a@x.com", Password: "p"},
		{Name: "A", Password: "p"},
		{Name: "A", Email: "a@x.com"},
	}
	for _, input := range cases {
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v want ErrInvalidInput got %v", input, err)
		}
	}
}

func TestUserAuthServicePasswordPolicy(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true})
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword got %v", err)
	}
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_min_length" {
		t.Fatalf("unexpected policy error: %v", err)
	}
}

func TestUserAuthServiceLogin(t *testing.T) {
	svc, _ := newUserAuthServiceForTest(config.PasswordPolicyConfig{})
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(ctx, "A@x.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" || result.User.LastLoginAt == nil {
		t.Fatalf("login should return token and stamp last login: %+v", result.User)
	}

	if _, err := svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@x.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Login(ctx, "", "secret"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing email want ErrInvalidInput got %v", err)
	}
}
