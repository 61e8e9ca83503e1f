package models

import "time"

// Product 商品表（只读目录，启动时写入种子数据）
type Product struct {
	ID            uint      `gorm:"primarykey;autoIncrement:false" json:"id"`                 // 主键（种子数据固定）
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`                   // 名称
	Price         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 售价
	OriginalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"originalPrice"` // 原价
	Rating        float64   `gorm:"not null;default:0" json:"rating"`                         // 评分
	Reviews       int       `gorm:"not null;default:0" json:"reviews"`                        // 评价数
	Image         string    `gorm:"type:varchar(500)" json:"image"`                           // 图片地址
	Category      string    `gorm:"type:varchar(100);index" json:"category"`                  // 分类
	Description   string    `gorm:"type:text" json:"description"`                             // 描述
	CreatedAt     time.Time `gorm:"index" json:"-"`                                           // 创建时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ToCartItem 复制商品字段生成购物车项，目录后续调价不影响已加购商品
func (p Product) ToCartItem(quantity int) CartItem {
	originalPrice := p.OriginalPrice
	rating := p.Rating
	reviews := p.Reviews
	return CartItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: &originalPrice,
		Rating:        &rating,
		Reviews:       &reviews,
		Image:         p.Image,
		Category:      p.Category,
		Description:   p.Description,
		Quantity:      quantity,
	}
}
