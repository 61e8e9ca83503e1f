package public

import (
	"strconv"
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/models"

	"github.com/gin-gonic/gin"
)

// CartUpsertRequest 加购请求（商品快照 + 数量）
type CartUpsertRequest struct {
	Item *models.CartItem `json:"item"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.GetCart(c.Request.Context(), uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// UpsertCartItem 加入购物车（同商品数量累加）
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CartUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_item", err)
		return
	}
	if req.Item == nil {
		respondError(c, response.CodeBadRequest, "error.invalid_item", nil)
		return
	}

	requestID := strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey))
	cart, err := h.CartService.UpsertItem(c.Request.Context(), uid, *req.Item, requestID)
	if err != nil {
		respondCartUpsertError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// UpdateCartItemQuantity 设置商品数量（绝对值，0 表示移除）
func (h *Handler) UpdateCartItemQuantity(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_quantity", err)
		return
	}
	if req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "error.invalid_quantity", nil)
		return
	}

	items, err := h.CartService.SetQuantity(c.Request.Context(), uid, productID, *req.Quantity)
	if err != nil {
		respondCartQuantityError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// RemoveCartItem 移除购物车商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	items, err := h.CartService.RemoveItem(c.Request.Context(), uid, productID)
	if err != nil {
		respondCartLookupError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// ClearCart 清空购物车（保留购物车文档）
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.ClearCart(c.Request.Context(), uid); err != nil {
		respondCartLookupError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func parseProductIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("productId"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_product_id", nil)
		return 0, false
	}
	return uint(id), true
}
