package utils

import (
	"testing"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
	"github.com/stretchr/testify/assert"
)

func TestValidateWindows(t *testing.T) {
	assert.NoError(t, ValidateWindows(nil))
	assert.NoError(t, ValidateWindows([]schedule.Window{
		{Start: "09:00", End: "12:00"},
		{Start: "14:00", End: "18:00"},
	}))

	err := ValidateWindows([]schedule.Window{
		{Start: "09:00", End: "12:00"},
		{Start: "15:00", End: "14:00"},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "第 2 个")
}

func TestValidateOrderStatusTransition(t *testing.T) {
	tests := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusConfirmed, false},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, false},
		{domain.OrderStatusPending, domain.OrderStatusDelivered, true},
		{domain.OrderStatusConfirmed, domain.OrderStatusDelivering, false},
		{domain.OrderStatusDelivering, domain.OrderStatusDelivered, false},
		{domain.OrderStatusDelivered, domain.OrderStatusPending, true},
		{domain.OrderStatusCancelled, domain.OrderStatusConfirmed, true},
		{domain.OrderStatus("未知"), domain.OrderStatusPending, true},
	}

	for _, tt := range tests {
		err := ValidateOrderStatusTransition(tt.from, tt.to)
		if tt.wantErr {
			assert.Error(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestValidateOrderItemsEditable(t *testing.T) {
	assert.NoError(t, ValidateOrderItemsEditable(domain.OrderStatusPending))
	assert.NoError(t, ValidateOrderItemsEditable(domain.OrderStatusDelivering))
	assert.Error(t, ValidateOrderItemsEditable(domain.OrderStatusDelivered))
	assert.Error(t, ValidateOrderItemsEditable(domain.OrderStatusCancelled))
}
