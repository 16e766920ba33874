package repository

import (
	"context"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (r *Repository) CreateHousehold(household *domain.Household) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO households (name, address, contact_name, phone, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	args := []any{household.Name, household.Address, household.ContactName, household.Phone, household.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&household.ID, &household.IsActive, &household.CreatedAt, &household.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetHouseholdByID(id int64) (*domain.Household, error) {
	query := `
		SELECT name, address, contact_name, phone, notes, is_active, created_at, version
		FROM households WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	household := &domain.Household{
		ID: id,
	}

	dst := []any{&household.Name, &household.Address, &household.ContactName, &household.Phone, &household.Notes, &household.IsActive, &household.CreatedAt, &household.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return household, nil
}

func (r *Repository) GetAllHouseholds() ([]*domain.Household, error) {
	query := `
		SELECT id, name, address, contact_name, phone, notes, is_active, created_at, version
		FROM households
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	households := make([]*domain.Household, 0)
	for rows.Next() {
		household := &domain.Household{}
		dst := []any{&household.ID, &household.Name, &household.Address, &household.ContactName, &household.Phone, &household.Notes, &household.IsActive, &household.CreatedAt, &household.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		households = append(households, household)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return households, nil
}

func (r *Repository) UpdateHousehold(household *domain.Household) error {
	query := `
		UPDATE households
		SET
			name = $1,
			address = $2,
			contact_name = $3,
			phone = $4,
			notes = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{household.Name, household.Address, household.ContactName, household.Phone, household.Notes, household.IsActive, household.ID, household.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&household.CreatedAt, &household.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteHousehold(id int64) error {
	query := `
		DELETE FROM households WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
