package queue

import (
	"encoding/json"

	"github.com/dujiao-next/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskUserLoginLog 登录日志落库任务
	TaskUserLoginLog = constants.TaskUserLoginLog
)

// UserLoginLogPayload 登录日志任务载荷
type UserLoginLogPayload struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	FailReason  string `json:"fail_reason"`
	ClientIP    string `json:"client_ip"`
	UserAgent   string `json:"user_agent"`
	LoginSource string `json:"login_source"`
	RequestID   string `json:"request_id"`
	OccurredAt  int64  `json:"occurred_at"` // Unix 毫秒
}

// NewUserLoginLogTask 创建登录日志任务
func NewUserLoginLogTask(payload UserLoginLogPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUserLoginLog, body), nil
}

// ParseUserLoginLogPayload 解析登录日志任务载荷
func ParseUserLoginLogPayload(task *asynq.Task) (UserLoginLogPayload, error) {
	var payload UserLoginLogPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
