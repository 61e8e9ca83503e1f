package service

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
)

var (
	defaultStandardShippingCost = models.MustMoney("0.00")
	defaultExpressShippingCost  = models.MustMoney("15.00")
)

// ShippingOptions 根据配置生成配送方式列表，解析失败时回退默认运费
func ShippingOptions(cfg config.CheckoutConfig) []models.ShippingOption {
	return []models.ShippingOption{
		{
			ID:    constants.ShippingOptionStandard,
			Label: "Standard Shipping",
			Cost:  parseShippingCost(cfg.StandardShippingCost, defaultStandardShippingCost),
		},
		{
			ID:    constants.ShippingOptionExpress,
			Label: "Express Shipping",
			Cost:  parseShippingCost(cfg.ExpressShippingCost, defaultExpressShippingCost),
		},
	}
}

func parseShippingCost(raw string, fallback models.Money) models.Money {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	cost, err := models.NewMoneyFromString(raw)
	if err != nil || cost.IsNegative() {
		logger.Warnw("checkout_shipping_cost_invalid", "value", raw, "error", err)
		return fallback
	}
	return cost
}
