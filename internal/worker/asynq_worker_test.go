package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/hibiken/asynq"
)

func newTestConsumer() *Consumer {
	cfg := &config.Config{UserJWT: config.JWTConfig{SecretKey: "worker-test-secret"}}
	return NewConsumer(provider.Build(cfg, provider.MemoryRepositories(), nil, cache.NewMemoryStore()))
}

func TestHandleUserLoginLogPersists(t *testing.T) {
	consumer := newTestConsumer()
	task, err := queue.NewUserLoginLogTask(queue.UserLoginLogPayload{
		UserID:     "user-1",
		Email:      " Ana@Test.com ",
		Status:     "success",
		ClientIP:   "127.0.0.1",
		RequestID:  "req-1",
		OccurredAt: 1700000000000,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleUserLoginLog(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	logs, total, err := consumer.UserLoginLogRepo.List(context.Background(), repository.UserLoginLogListFilter{UserID: "user-1"})
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if total != 1 || len(logs) != 1 {
		t.Fatalf("logs want 1 got total=%d len=%d", total, len(logs))
	}
	if logs[0].Email != "ana@test.com" || logs[0].RequestID != "req-1" {
		t.Fatalf("unexpected persisted log: %+v", logs[0])
	}
}

func TestHandleUserLoginLogInvalidPayloadSkipsRetry(t *testing.T) {
	consumer := newTestConsumer()
	task := asynq.NewTask(queue.TaskUserLoginLog, []byte("{not-json"))

	err := consumer.handleUserLoginLog(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("invalid payload should skip retry, got %v", err)
	}
}

func TestHandleUserLoginLogEmptyPayload(t *testing.T) {
	consumer := newTestConsumer()
	task := asynq.NewTask(queue.TaskUserLoginLog, []byte(`{}`))
	if err := consumer.handleUserLoginLog(context.Background(), task); err != nil {
		t.Fatalf("empty payload should be ignored, got %v", err)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, newTestConsumer()); err == nil {
		t.Fatalf("disabled queue should return error")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should return error")
	}
}
