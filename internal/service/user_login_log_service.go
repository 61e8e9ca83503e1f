package service

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/hibiken/asynq"
)

// LoginLogEnqueuer 登录日志异步投递
type LoginLogEnqueuer interface {
	Enabled() bool
	EnqueueUserLoginLog(payload queue.UserLoginLogPayload, opts ...asynq.Option) error
}

// UserLoginLogService 用户登录日志服务
type UserLoginLogService struct {
	repo     repository.UserLoginLogRepository
	enqueuer LoginLogEnqueuer
}

// NewUserLoginLogService 创建用户登录日志服务，enqueuer 未启用时同步落库
func NewUserLoginLogService(repo repository.UserLoginLogRepository, enqueuer LoginLogEnqueuer) *UserLoginLogService {
	return &UserLoginLogService{repo: repo, enqueuer: enqueuer}
}

// RecordUserLoginInput 登录日志记录输入
type RecordUserLoginInput struct {
	UserID      string
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	UserAgent   string
	LoginSource string
	RequestID   string
}

// Record 记录登录行为：队列可用时异步投递，否则直接写入
func (s *UserLoginLogService) Record(ctx context.Context, input RecordUserLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	payload := queue.UserLoginLogPayload{
		UserID:      input.UserID,
		Email:       input.Email,
		Status:      input.Status,
		FailReason:  input.FailReason,
		ClientIP:    input.ClientIP,
		UserAgent:   input.UserAgent,
		LoginSource: input.LoginSource,
		RequestID:   input.RequestID,
		OccurredAt:  time.Now().UnixMilli(),
	}
	if s.enqueuer != nil && s.enqueuer.Enabled() {
		err := s.enqueuer.EnqueueUserLoginLog(payload)
		if err == nil {
			return nil
		}
		logger.Warnw("user_login_log_enqueue_failed", "request_id", input.RequestID, "error", err)
	}
	return s.Persist(ctx, payload)
}

// Persist 规范化并写入登录日志（worker 与同步路径共用）
func (s *UserLoginLogService) Persist(ctx context.Context, payload queue.UserLoginLogPayload) error {
	if s == nil || s.repo == nil {
		return nil
	}

	email := strings.TrimSpace(payload.Email)
	if normalized, err := NormalizeEmail(email); err == nil {
		email = normalized
	}

	status := strings.ToLower(strings.TrimSpace(payload.Status))
	if status != constants.LoginLogStatusSuccess {
		status = constants.LoginLogStatusFailed
	}

	failReason := strings.ToLower(strings.TrimSpace(payload.FailReason))
	if status == constants.LoginLogStatusSuccess {
		failReason = ""
	} else if failReason == "" {
		failReason = constants.LoginLogFailReasonInternalError
	}

	source := strings.ToLower(strings.TrimSpace(payload.LoginSource))
	if source == "" {
		source = constants.LoginLogSourceWeb
	}

	createdAt := time.Now()
	if payload.OccurredAt > 0 {
		createdAt = time.UnixMilli(payload.OccurredAt)
	}
	return s.repo.Create(ctx, &models.UserLoginLog{
		UserID:      strings.TrimSpace(payload.UserID),
		Email:       email,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    strings.TrimSpace(payload.ClientIP),
		UserAgent:   strings.TrimSpace(payload.UserAgent),
		LoginSource: source,
		RequestID:   strings.TrimSpace(payload.RequestID),
		CreatedAt:   createdAt,
	})
}

// ListByUser 用户侧查询自己的登录日志
func (s *UserLoginLogService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil || strings.TrimSpace(userID) == "" {
		return []models.UserLoginLog{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.List(ctx, repository.UserLoginLogListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}
