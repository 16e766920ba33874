package domain

import (
	"encoding/json"
	"time"
)

type Vendor struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	// 每个供应商有且只有一份配送时间表，作为一个不透明的 JSON 块整体读写，
	// 具体解析在 internal/schedule 中完成（历史数据里存在非法形状）
	DetailedSchedule json.RawMessage `json:"detailedSchedule"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	Version          int32           `json:"-"`
}
