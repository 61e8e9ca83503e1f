// Package i18n 错误与提示文案（en / es）
package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en"
	LocaleES = "es"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleEN
)

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":             "invalid request",
		"error.missing_fields":          "all fields are required",
		"error.login_missing_fields":    "email and password are required",
		"error.invalid_email":           "invalid email address",
		"error.email_exists":            "user already exists",
		"error.invalid_credentials":     "invalid credentials",
		"error.password_min_length":     "password must be at least %d characters",
		"error.password_require_upper":  "password must contain an uppercase letter",
		"error.password_require_lower":  "password must contain a lowercase letter",
		"error.password_require_number": "password must contain a number",
		"error.unauthorized":            "access token required",
		"error.token_invalid":           "invalid or expired token",
		"error.too_many_requests":       "too many attempts, please try again later",
		"error.invalid_item":            "invalid cart item",
		"error.invalid_product_id":      "invalid product id",
		"error.invalid_quantity":        "invalid quantity",
		"error.cart_not_found":          "cart not found",
		"error.cart_item_not_found":     "item not found in cart",
		"error.product_not_found":       "product not found",
		"error.not_found":               "resource not found",
		"error.internal":                "internal server error",
		"message.register_success":      "user registered",
		"message.login_success":         "login successful",
		"message.health_ok":             "server running",
	},
	LocaleES: {
		"error.bad_request":             "Solicitud inválida",
		"error.missing_fields":          "Todos los campos son requeridos",
		"error.login_missing_fields":    "Email y password son requeridos",
		"error.invalid_email":           "Email inválido",
		"error.email_exists":            "El usuario ya existe",
		"error.invalid_credentials":     "Credenciales inválidas",
		"error.password_min_length":     "La contraseña debe tener al menos %d caracteres",
		"error.password_require_upper":  "La contraseña debe incluir una mayúscula",
		"error.password_require_lower":  "La contraseña debe incluir una minúscula",
		"error.password_require_number": "La contraseña debe incluir un número",
		"error.unauthorized":            "Token no proporcionado",
		"error.token_invalid":           "Token inválido",
		"error.too_many_requests":       "Demasiados intentos, inténtalo más tarde",
		"error.invalid_item":            "Producto inválido",
		"error.invalid_product_id":      "ID de producto inválido",
		"error.invalid_quantity":        "Cantidad inválida",
		"error.cart_not_found":          "Carrito no encontrado",
		"error.cart_item_not_found":     "Producto no encontrado en el carrito",
		"error.product_not_found":       "Producto no encontrado",
		"error.not_found":               "Recurso no encontrado",
		"error.internal":                "Error interno del servidor",
		"message.register_success":      "Usuario registrado",
		"message.login_success":         "Login exitoso",
		"message.health_ok":             "Servidor funcionando",
	},
}

// ResolveLocale 根据 Accept-Language 解析语言，无法识别时返回默认语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	return ParseAcceptLanguage(c.GetHeader("Accept-Language"))
}

// ParseAcceptLanguage 按出现顺序取第一个受支持的语言
func ParseAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		tag = strings.ToLower(strings.TrimSpace(tag))
		if idx := strings.IndexAny(tag, "-_"); idx >= 0 {
			tag = tag[:idx]
		}
		if _, ok := messages[tag]; ok {
			return tag
		}
	}
	return DefaultLocale
}

// T 翻译文案，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Tf 带格式化参数的翻译
func Tf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
