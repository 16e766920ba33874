package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "待处理"
	OrderStatusConfirmed  OrderStatus = "已确认"
	OrderStatusDelivering OrderStatus = "配送中"
	OrderStatusDelivered  OrderStatus = "已送达"
	OrderStatusCancelled  OrderStatus = "已取消"
)

type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productID"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	// 替换记账：换货之后保留原商品的引用，单价换成替换商品的现价
	IsSubstituted       bool   `json:"isSubstituted"`
	OriginalProductID   *int64 `json:"originalProductID"`
	OriginalProductName string `json:"originalProductName"`
	SubstitutionNote    string `json:"substitutionNote"`
}

type Order struct {
	ID           int64       `json:"id"`
	Number       string      `json:"number"` // 对外展示的订单号（uuid）
	HouseholdID  int64       `json:"householdID"`
	VendorID     int64       `json:"vendorID"`
	Status       OrderStatus `json:"status"`
	DeliveryDate string      `json:"deliveryDate"` // YYYY-MM-DD，参考时区
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	Notes        string      `json:"notes"`
	CreatedAt    time.Time   `json:"createdAt"`
	Version      int32       `json:"-"`
}

// RecalculateTotal 订单金额只在服务端重算，客户端传来的金额一律不信
func (o *Order) RecalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Quantity * item.UnitPrice
	}
	o.Total = total
}

// Substitute 把订单项换成另一个商品，保留原商品信息用于对账
func (item *OrderItem) Substitute(substitute *Product, note string) {
	if !item.IsSubstituted {
		originalID := item.ProductID
		item.OriginalProductID = &originalID
		item.OriginalProductName = item.Name
	}
	item.IsSubstituted = true
	item.ProductID = substitute.ID
	item.Name = substitute.Name
	item.UnitPrice = substitute.EffectivePrice()
	item.SubstitutionNote = note
}
