// Package catalog 商品目录种子数据
package catalog

import (
	"fmt"

	"github.com/dujiao-next/storefront/internal/models"
)

const placeholderImage = "https://placehold.co/300x300/%s/ffffff?text=%s"

// DefaultProducts 返回默认商品目录（每次调用返回新的切片）
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:            1,
			Name:          "Wireless Bluetooth Headphones",
			Price:         models.MustMoney("129.99"),
			OriginalPrice: models.MustMoney("199.99"),
			Rating:        4.5,
			Reviews:       128,
			Image:         image("4f46e5", "Headphones"),
			Category:      "Electronics",
			Description:   "Premium wireless headphones with noise cancellation",
		},
		{
			ID:            2,
			Name:          "Organic Cotton T-Shirt",
			Price:         models.MustMoney("24.99"),
			OriginalPrice: models.MustMoney("39.99"),
			Rating:        4.8,
			Reviews:       89,
			Image:         image("059669", "T-Shirt"),
			Category:      "Clothing",
			Description:   "Comfortable organic cotton t-shirt, eco-friendly",
		},
		{
			ID:            3,
			Name:          "Smart Fitness Watch",
			Price:         models.MustMoney("199.99"),
			OriginalPrice: models.MustMoney("299.99"),
			Rating:        4.3,
			Reviews:       203,
			Image:         image("dc2626", "Watch"),
			Category:      "Electronics",
			Description:   "Advanced fitness tracking with heart rate monitoring",
		},
		{
			ID:            4,
			Name:          "Ceramic Coffee Mug Set",
			Price:         models.MustMoney("34.99"),
			OriginalPrice: models.MustMoney("49.99"),
			Rating:        4.7,
			Reviews:       67,
			Image:         image("7c3aed", "Mugs"),
			Category:      "Home",
			Description:   "Set of 4 elegant ceramic mugs, dishwasher safe",
		},
		{
			ID:            5,
			Name:          "Leather Wallet",
			Price:         models.MustMoney("45.99"),
			OriginalPrice: models.MustMoney("79.99"),
			Rating:        4.6,
			Reviews:       156,
			Image:         image("1f2937", "Wallet"),
			Category:      "Accessories",
			Description:   "Genuine leather wallet with multiple card slots",
		},
		{
			ID:            6,
			Name:          "Bamboo Cutting Board",
			Price:         models.MustMoney("29.99"),
			OriginalPrice: models.MustMoney("39.99"),
			Rating:        4.4,
			Reviews:       92,
			Image:         image("047857", "Board"),
			Category:      "Home",
			Description:   "Sustainable bamboo cutting board with juice groove",
		},
	}
}

func image(color, text string) string {
	return fmt.Sprintf(placeholderImage, color, text)
}
