package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (r *Repository) CreateStaff(staff *domain.Staff) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO staff (full_name, phone, position, household_id, hourly_rate, weekly_hours)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, version
	`

	args := []any{staff.FullName, staff.Phone, staff.Position, staff.HouseholdID, staff.HourlyRate, staff.WeeklyHours}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &staff.IsActive, &staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStaffByID(id int64) (*domain.Staff, error) {
	query := `
		SELECT full_name, phone, position, household_id, hourly_rate, weekly_hours, is_active, created_at, version
		FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	staff := &domain.Staff{
		ID: id,
	}

	dst := []any{&staff.FullName, &staff.Phone, &staff.Position, &staff.HouseholdID, &staff.HourlyRate, &staff.WeeklyHours, &staff.IsActive, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) GetAllStaff() ([]*domain.Staff, error) {
	query := `
		SELECT id, full_name, phone, position, household_id, hourly_rate, weekly_hours, is_active, created_at, version
		FROM staff
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStaffRows(rows)
}

func (r *Repository) GetStaffByHouseholdID(householdID int64) ([]*domain.Staff, error) {
	query := `
		SELECT id, full_name, phone, position, household_id, hourly_rate, weekly_hours, is_active, created_at, version
		FROM staff
		WHERE household_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStaffRows(rows)
}

func scanStaffRows(rows *sql.Rows) ([]*domain.Staff, error) {
	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.FullName, &staff.Phone, &staff.Position, &staff.HouseholdID, &staff.HourlyRate, &staff.WeeklyHours, &staff.IsActive, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffList = append(staffList, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffList, nil
}

func (r *Repository) UpdateStaff(staff *domain.Staff) error {
	query := `
		UPDATE staff
		SET
			full_name = $1,
			phone = $2,
			position = $3,
			household_id = $4,
			hourly_rate = $5,
			weekly_hours = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{staff.FullName, staff.Phone, staff.Position, staff.HouseholdID, staff.HourlyRate, staff.WeeklyHours, staff.IsActive, staff.ID, staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStaff(id int64) error {
	query := `
		DELETE FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
