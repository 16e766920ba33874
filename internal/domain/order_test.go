package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 12.9}
	assert.Equal(t, 12.9, p.EffectivePrice())

	sale := 9.9
	p.SalePrice = &sale
	assert.Equal(t, 9.9, p.EffectivePrice())
}

func TestRecalculateTotal(t *testing.T) {
	o := Order{
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: 5.5},
			{Quantity: 0.5, UnitPrice: 20},
		},
	}

	o.RecalculateTotal()
	assert.InDelta(t, 21.0, o.Total, 1e-9)

	o.Items = nil
	o.RecalculateTotal()
	assert.Zero(t, o.Total)
}

func TestSubstituteKeepsOriginalReference(t *testing.T) {
	item := OrderItem{ProductID: 7, Name: "全脂牛奶 1L", Quantity: 3, UnitPrice: 6.9}

	sale := 7.5
	substitute := &Product{ID: 9, Name: "低脂牛奶 1L", Price: 8.2, SalePrice: &sale}
	item.Substitute(substitute, "全脂缺货")

	assert.True(t, item.IsSubstituted)
	assert.Equal(t, int64(9), item.ProductID)
	assert.Equal(t, "低脂牛奶 1L", item.Name)
	assert.Equal(t, 7.5, item.UnitPrice)
	assert.Equal(t, int64(7), *item.OriginalProductID)
	assert.Equal(t, "全脂牛奶 1L", item.OriginalProductName)

	// 二次替换不能覆盖最初的原商品记录
	item.Substitute(&Product{ID: 11, Name: "燕麦奶 1L", Price: 9.9}, "低脂也缺货")
	assert.Equal(t, int64(7), *item.OriginalProductID)
	assert.Equal(t, "全脂牛奶 1L", item.OriginalProductName)
	assert.Equal(t, int64(11), item.ProductID)
}
