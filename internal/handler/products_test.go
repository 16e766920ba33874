package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCSVHeader(t *testing.T) {
	testCases := []struct {
		name     string
		header   []string
		expected []string
	}{
		{
			name:     "已经是规范形式",
			header:   []string{"sku", "name", "price"},
			expected: []string{"sku", "name", "price"},
		},
		{
			name:     "大小写和首尾空格",
			header:   []string{" SKU ", "Name", "  PRICE"},
			expected: []string{"sku", "name", "price"},
		},
		{
			name:     "空格和连字符统一成下划线",
			header:   []string{"Sale Price", "sale-price", "is available"},
			expected: []string{"sale_price", "sale_price", "is_available"},
		},
		{
			name:     "空表头",
			header:   []string{},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeCSVHeader(tc.header))
		})
	}
}
