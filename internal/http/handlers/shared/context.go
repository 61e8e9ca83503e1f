package shared

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextStringWithKeys 从上下文读取非空字符串值并统一处理错误响应。
func GetContextStringWithKeys(c *gin.Context, key, typeInvalidKey string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}

	v, ok := value.(string)
	if !ok {
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	return v, true
}
