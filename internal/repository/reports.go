package repository

import (
	"context"
	"time"
)

type BillingRow struct {
	VendorID   int64   `json:"vendorId"`
	VendorName string  `json:"vendorName"`
	OrderCount int64   `json:"orderCount"`
	Total      float64 `json:"total"`
}

type PayrollRow struct {
	HouseholdID   int64   `json:"householdId"`
	HouseholdName string  `json:"householdName"`
	StaffID       int64   `json:"staffId"`
	StaffName     string  `json:"staffName"`
	HourlyRate    float64 `json:"hourlyRate"`
	WeeklyHours   int32   `json:"weeklyHours"`
	MonthlyWage   float64 `json:"monthlyWage"`
}

// GetBillingReport 按供应商汇总某月内已送达订单的金额。
// month 形如 2024-03，配送日期按字符串前缀匹配
func (r *Repository) GetBillingReport(month string) ([]*BillingRow, error) {
	query := `
		SELECT
			v.id,
			v.name,
			COUNT(o.id),
			COALESCE(SUM(o.total), 0)
		FROM vendors v
		LEFT JOIN orders o
			ON o.vendor_id = v.id
			AND o.status = '已送达'
			AND o.delivery_date LIKE $1
		GROUP BY v.id, v.name
		ORDER BY v.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, month+"-%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := make([]*BillingRow, 0)
	for rows.Next() {
		row := &BillingRow{}
		if err := rows.Scan(&row.VendorID, &row.VendorName, &row.OrderCount, &row.Total); err != nil {
			return nil, err
		}
		report = append(report, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

// GetPayrollReport 按家庭列出在职员工的月度工资。
// 月度工资按每周工时乘以时薪再乘以 52/12 估算
func (r *Repository) GetPayrollReport() ([]*PayrollRow, error) {
	query := `
		SELECT
			h.id,
			h.name,
			s.id,
			s.full_name,
			s.hourly_rate,
			s.weekly_hours,
			s.hourly_rate * s.weekly_hours * 52.0 / 12.0
		FROM staff s
		JOIN households h ON s.household_id = h.id
		ORDER BY h.id, s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := make([]*PayrollRow, 0)
	for rows.Next() {
		row := &PayrollRow{}
		dst := []any{&row.HouseholdID, &row.HouseholdName, &row.StaffID, &row.StaffName, &row.HourlyRate, &row.WeeklyHours, &row.MonthlyWage}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		report = append(report, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
