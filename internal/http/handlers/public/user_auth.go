package public

import (
	"errors"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			if perr, ok := err.(interface {
				Key() string
				Args() []interface{}
			}); ok {
				handlershared.RespondErrorWithArgs(c, response.CodeBadRequest, perr.Key(), perr.Args(), nil)
				return
			}
		}
		respondWithMappedError(c, err, userRegisterErrorRules, response.CodeInternal, "error.internal")
		return
	}

	response.Created(c, gin.H{
		"message":    i18n.T(i18n.ResolveLocale(c), "message.register_success"),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
		"user":       result.User,
	})
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Email, "", constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidInput)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			h.recordUserLogin(c, req.Email, "", constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidInput)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordUserLogin(c, req.Email, "", constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredentials)
		default:
			h.recordUserLogin(c, req.Email, "", constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		}
		respondWithMappedError(c, err, userLoginErrorRules, response.CodeInternal, "error.internal")
		return
	}

	h.recordUserLogin(c, result.User.Email, result.User.ID, constants.LoginLogStatusSuccess, "")
	response.Success(c, gin.H{
		"message":    i18n.T(i18n.ResolveLocale(c), "message.login_success"),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
		"user":       result.User,
	})
}

// GetCurrentUser 返回令牌中携带的用户身份
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"user": service.Identity{
			ID:    id,
			Email: getContextString(c, constants.ContextKeyUserEmail),
			Name:  getContextString(c, constants.ContextKeyUserName),
		},
	})
}

func (h *Handler) recordUserLogin(c *gin.Context, email, userID, status, failReason string) {
	if h == nil || h.UserLoginLogService == nil || c == nil {
		return
	}
	source := constants.LoginLogSourceWeb
	if c.GetHeader(constants.HeaderClient) == constants.LoginLogSourceCLI {
		source = constants.LoginLogSourceCLI
	}
	err := h.UserLoginLogService.Record(c.Request.Context(), service.RecordUserLoginInput{
		UserID:      userID,
		Email:       email,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		LoginSource: source,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		handlershared.RequestLog(c).Warnw("user_login_log_record_failed", "email", email, "error", err)
	}
}
