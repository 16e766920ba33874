package repository

import (
	"context"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
)

func (r *Repository) CreateVendor(vendor *domain.Vendor) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO vendors (name, contact, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, detailed_schedule, is_active, created_at, version
	`

	args := []any{vendor.Name, vendor.Contact, vendor.Phone, vendor.Email}
	dst := []any{&vendor.ID, &vendor.DetailedSchedule, &vendor.IsActive, &vendor.CreatedAt, &vendor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetVendorByID(id int64) (*domain.Vendor, error) {
	query := `
		SELECT name, contact, phone, email, detailed_schedule, is_active, created_at, version
		FROM vendors WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	vendor := &domain.Vendor{
		ID: id,
	}

	dst := []any{&vendor.Name, &vendor.Contact, &vendor.Phone, &vendor.Email, &vendor.DetailedSchedule, &vendor.IsActive, &vendor.CreatedAt, &vendor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return vendor, nil
}

func (r *Repository) GetAllVendors() ([]*domain.Vendor, error) {
	query := `
		SELECT id, name, contact, phone, email, detailed_schedule, is_active, created_at, version
		FROM vendors
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := make([]*domain.Vendor, 0)
	for rows.Next() {
		vendor := &domain.Vendor{}
		dst := []any{&vendor.ID, &vendor.Name, &vendor.Contact, &vendor.Phone, &vendor.Email, &vendor.DetailedSchedule, &vendor.IsActive, &vendor.CreatedAt, &vendor.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vendors, nil
}

func (r *Repository) UpdateVendor(vendor *domain.Vendor) error {
	query := `
		UPDATE vendors
		SET
			name = $1,
			contact = $2,
			phone = $3,
			email = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{vendor.Name, vendor.Contact, vendor.Phone, vendor.Email, vendor.IsActive, vendor.ID, vendor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&vendor.CreatedAt, &vendor.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteVendor(id int64) error {
	query := `
		DELETE FROM vendors WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// UpdateVendorSchedule 带版本号的整表替换。
// 版本不匹配时没有任何行被改到，Scan 返回 sql.ErrNoRows，
// 调用方把它当成"别的会话先保存了，请重新加载"处理。
func (r *Repository) UpdateVendorSchedule(ctx context.Context, vendorID int64, version int32, m schedule.ScheduleMap) (int32, error) {
	raw, err := m.Encode()
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE vendors
		SET
			detailed_schedule = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var newVersion int32
	if err := r.dbpool.QueryRowContext(ctx, query, []byte(raw), vendorID, version).Scan(&newVersion); err != nil {
		return 0, err
	}

	return newVersion, nil
}

// ReplaceVendorSchedule 无条件整表替换，模板广播专用
func (r *Repository) ReplaceVendorSchedule(ctx context.Context, vendorID int64, m schedule.ScheduleMap) error {
	raw, err := m.Encode()
	if err != nil {
		return err
	}

	query := `
		UPDATE vendors
		SET
			detailed_schedule = $1,
			version = version + 1
		WHERE id = $2
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, []byte(raw), vendorID).Scan(&version); err != nil {
		return err
	}

	return nil
}
