package public

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表，支持 category 与 q 过滤
func (h *Handler) GetProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("q")),
	}
	products, err := h.ProductService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"products": products})
}

// GetProduct 获取单个商品
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(c.Request.Context(), productID)
	if err != nil {
		respondProductLookupError(c, err)
		return
	}
	response.Success(c, gin.H{"product": product})
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status": i18n.T(i18n.ResolveLocale(c), "message.health_ok"),
	})
}

// GetConfig 获取前台配置（配送方式）
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"shippingOptions": service.ShippingOptions(h.Config.Checkout),
	})
}
