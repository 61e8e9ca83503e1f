package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Cart 购物车文档：每个用户至多一条，商品项内嵌存储
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"-"`                                 // 主键
	UserID    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"userId"` // 用户ID（唯一）
	Items     CartItems `gorm:"type:text;not null" json:"items"`                     // 商品项（JSON 存储）
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                              // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`                              // 更新时间
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项：加购时复制的商品快照 + 数量
type CartItem struct {
	ProductID     uint     `json:"id"`
	Name          string   `json:"name"`
	Price         Money    `json:"price"`
	OriginalPrice *Money   `json:"originalPrice,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Reviews       *int     `json:"reviews,omitempty"`
	Image         string   `json:"image,omitempty"`
	Category      string   `json:"category,omitempty"`
	Description   string   `json:"description,omitempty"`
	Quantity      int      `json:"quantity"`
}

// Subtotal 单项小计
func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// CartItems 购物车项列表，实现 driver.Valuer / sql.Scanner
type CartItems []CartItem

// Value 实现 driver.Valuer 接口
func (items CartItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 实现 sql.Scanner 接口
func (items *CartItems) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*items = CartItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported cart items type: %T", value)
	}
	if len(raw) == 0 {
		*items = CartItems{}
		return nil
	}
	var decoded CartItems
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	if decoded == nil {
		decoded = CartItems{}
	}
	*items = decoded
	return nil
}

// IndexOf 返回商品所在下标，不存在时返回 -1
func (items CartItems) IndexOf(productID uint) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Without 返回移除指定商品后的新列表
func (items CartItems) Without(productID uint) CartItems {
	result := make(CartItems, 0, len(items))
	for _, item := range items {
		if item.ProductID == productID {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Clone 深拷贝（指针字段同样复制）
func (items CartItems) Clone() CartItems {
	result := make(CartItems, 0, len(items))
	for _, item := range items {
		copied := item
		if item.OriginalPrice != nil {
			v := *item.OriginalPrice
			copied.OriginalPrice = &v
		}
		if item.Rating != nil {
			v := *item.Rating
			copied.Rating = &v
		}
		if item.Reviews != nil {
			v := *item.Reviews
			copied.Reviews = &v
		}
		result = append(result, copied)
	}
	return result
}

// TotalQuantity 数量合计
func (items CartItems) TotalQuantity() int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice 金额合计（单价 × 数量）
func (items CartItems) TotalPrice() Money {
	total := Money{}
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
