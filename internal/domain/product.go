package domain

import "time"

type Product struct {
	ID       int64  `json:"id"`
	VendorID int64  `json:"vendorID"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	// 基准价，促销价为 nil 时按基准价出售
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"salePrice"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// EffectivePrice 下单时的定价规则：有促销价用促销价，否则用基准价
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
