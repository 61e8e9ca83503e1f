package constants

// 数据库驱动常量
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMongo    = "mongo"
)

// 配送方式常量
const (
	ShippingOptionStandard = "standard"
	ShippingOptionExpress  = "express"
)

// 登录日志常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"

	LoginLogFailReasonInvalidInput       = "invalid_input"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonInternalError      = "internal_error"

	LoginLogSourceWeb = "web"
	LoginLogSourceCLI = "cli"
)

// 异步任务类型常量
const (
	TaskUserLoginLog = "user:login_log"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 请求上下文键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserName  = "user_name"
	ContextKeyRequestID = "request_id"
)

// HeaderIdempotencyKey 购物车写入幂等键请求头
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderNoPrefix 本地生成的订单号前缀
const OrderNoPrefix = "ORD-"

// HeaderClient 客户端类型请求头（web / cli）
const HeaderClient = "X-Client"
