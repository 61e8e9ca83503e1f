package public

import (
	"errors"

	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var userRegisterErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.missing_fields"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.invalid_email"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
}

var userLoginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.login_missing_fields"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
}

var cartLookupErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
}

var productLookupErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_product_id"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var cartUpsertErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_item"},
}

var cartQuantityErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_quantity"},
}

func respondCartUpsertError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartUpsertErrorRules, response.CodeInternal, "error.internal")
}

func respondCartQuantityError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartQuantityErrorRules, cartLookupErrorRules), response.CodeInternal, "error.internal")
}

func respondCartLookupError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartLookupErrorRules, response.CodeInternal, "error.internal")
}

func respondProductLookupError(c *gin.Context, err error) {
	respondWithMappedError(c, err, productLookupErrorRules, response.CodeInternal, "error.internal")
}
