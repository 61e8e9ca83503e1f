package public

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (string, bool) {
	return handlershared.GetContextStringWithKeys(c, constants.ContextKeyUserID, "error.internal")
}

func getContextString(c *gin.Context, key string) string {
	if value, ok := c.Get(key); ok {
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func getRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return getContextString(c, constants.ContextKeyRequestID)
}
