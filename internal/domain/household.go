package domain

import "time"

type Household struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	ContactName string    `json:"contactName"`
	Phone       string    `json:"phone"`
	Notes       string    `json:"notes"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

type Staff struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	Position    string    `json:"position"`
	HouseholdID *int64    `json:"householdID"` // 为 nil 表示还没有派驻到任何家庭
	HourlyRate  float64   `json:"hourlyRate"`
	WeeklyHours int32     `json:"weeklyHours"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
