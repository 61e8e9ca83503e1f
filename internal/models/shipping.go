package models

// ShippingOption 配送方式（由服务端配置下发）
type ShippingOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Cost  Money  `json:"cost"`
}
