package utils

import (
	"fmt"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
)

// ValidateWindows 校验一组配送时间窗，任何一个非法就整体拒绝
func ValidateWindows(windows []schedule.Window) error {
	for i, w := range windows {
		if err := schedule.ValidateWindow(w); err != nil {
			return fmt.Errorf("第 %d 个时间窗非法：%w", i+1, err)
		}
	}
	return nil
}

// 订单状态机：待处理 -> 已确认 -> 配送中 -> 已送达，送达前任何一步都可以取消
var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:    {domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed:  {domain.OrderStatusDelivering, domain.OrderStatusCancelled},
	domain.OrderStatusDelivering: {domain.OrderStatusDelivered, domain.OrderStatusCancelled},
	domain.OrderStatusDelivered:  {},
	domain.OrderStatusCancelled:  {},
}

func ValidateOrderStatusTransition(from, to domain.OrderStatus) error {
	allowed, ok := allowedTransitions[from]
	if !ok {
		return fmt.Errorf("未知的订单状态：%s", from)
	}

	for _, s := range allowed {
		if s == to {
			return nil
		}
	}

	return fmt.Errorf("订单不能从 %s 变更为 %s", from, to)
}

// ValidateOrderItemsEditable 只有送达和取消之前的订单允许修改订单项
func ValidateOrderItemsEditable(status domain.OrderStatus) error {
	if status == domain.OrderStatusDelivered || status == domain.OrderStatusCancelled {
		return fmt.Errorf("订单状态为%s，不能再修改订单项", status)
	}
	return nil
}
