package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskUserLoginLog, c.handleUserLoginLog)
}

func (c *Consumer) handleUserLoginLog(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_user_login_log_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseUserLoginLogPayload(task)
	if err != nil {
		logger.Warnw("worker_user_login_log_unmarshal_failed", "error", err)
		return fmt.Errorf("parse user login log payload: %v: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.Email) == "" && strings.TrimSpace(payload.UserID) == "" {
		logger.Debugw("worker_user_login_log_skip_empty_payload", "request_id", payload.RequestID)
		return nil
	}
	if c.UserLoginLogService == nil {
		logger.Warnw("worker_user_login_log_skip_service_nil", "request_id", payload.RequestID)
		return nil
	}
	if err := c.UserLoginLogService.Persist(ctx, payload); err != nil {
		logger.Warnw("worker_user_login_log_persist_failed",
			"user_id", payload.UserID,
			"request_id", payload.RequestID,
			"error", err,
		)
		return err
	}
	return nil
}
