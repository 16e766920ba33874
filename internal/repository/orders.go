package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (r *Repository) CreateOrder(order *domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO orders (number, household_id, vendor_id, status, delivery_date, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{order.Number, order.HouseholdID, order.VendorID, order.Status, order.DeliveryDate, order.Total, order.Notes}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&order.ID, &order.CreatedAt, &order.Version); err != nil {
		return err
	}

	for i := range order.Items {
		query = `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, is_substituted, original_product_id, original_product_name, substitution_note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`
		item := &order.Items[i]
		params := []any{order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.IsSubstituted, item.OriginalProductID, item.OriginalProductName, item.SubstitutionNote}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&item.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetOrderByID(id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			o.number,
			o.household_id,
			o.vendor_id,
			o.status,
			o.delivery_date,
			o.total,
			o.notes,
			o.created_at,
			o.version,
			oi.id,
			oi.product_id,
			oi.name,
			oi.quantity,
			oi.unit_price,
			oi.is_substituted,
			oi.original_product_id,
			oi.original_product_name,
			oi.substitution_note
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		ORDER BY oi.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order := &domain.Order{
		ID:    id,
		Items: make([]domain.OrderItem, 0),
	}
	found := false

	for rows.Next() {
		var row struct {
			Number       string
			HouseholdID  int64
			VendorID     int64
			Status       string
			DeliveryDate string
			Total        float64
			Notes        string
			CreatedAt    time.Time
			Version      int32

			ItemID              sql.NullInt64
			ProductID           sql.NullInt64
			Name                sql.NullString
			Quantity            sql.NullFloat64
			UnitPrice           sql.NullFloat64
			IsSubstituted       sql.NullBool
			OriginalProductID   sql.NullInt64
			OriginalProductName sql.NullString
			SubstitutionNote    sql.NullString
		}

		dst := []any{
			&row.Number,
			&row.HouseholdID,
			&row.VendorID,
			&row.Status,
			&row.DeliveryDate,
			&row.Total,
			&row.Notes,
			&row.CreatedAt,
			&row.Version,
			&row.ItemID,
			&row.ProductID,
			&row.Name,
			&row.Quantity,
			&row.UnitPrice,
			&row.IsSubstituted,
			&row.OriginalProductID,
			&row.OriginalProductName,
			&row.SubstitutionNote,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			// 第一行带出订单本体
			order.Number = row.Number
			order.HouseholdID = row.HouseholdID
			order.VendorID = row.VendorID
			order.Status = domain.OrderStatus(row.Status)
			order.DeliveryDate = row.DeliveryDate
			order.Total = row.Total
			order.Notes = row.Notes
			order.CreatedAt = row.CreatedAt
			order.Version = row.Version
			found = true
		}

		// itemID 为空表示这个订单没有任何订单项
		if !row.ItemID.Valid {
			continue
		}

		item := domain.OrderItem{
			ID:                  row.ItemID.Int64,
			ProductID:           row.ProductID.Int64,
			Name:                row.Name.String,
			Quantity:            row.Quantity.Float64,
			UnitPrice:           row.UnitPrice.Float64,
			IsSubstituted:       row.IsSubstituted.Bool,
			OriginalProductName: row.OriginalProductName.String,
			SubstitutionNote:    row.SubstitutionNote.String,
		}
		if row.OriginalProductID.Valid {
			originalID := row.OriginalProductID.Int64
			item.OriginalProductID = &originalID
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return order, nil
}

type OrderFilter struct {
	HouseholdID  *int64
	VendorID     *int64
	Status       *domain.OrderStatus
	DeliveryDate *string
}

func (r *Repository) GetAllOrders(filter OrderFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	conditions := []string{}
	args := []any{}

	if filter.HouseholdID != nil {
		args = append(args, *filter.HouseholdID)
		conditions = append(conditions, fmt.Sprintf("household_id = $%d", len(args)))
	}
	if filter.VendorID != nil {
		args = append(args, *filter.VendorID)
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DeliveryDate != nil {
		args = append(args, *filter.DeliveryDate)
		conditions = append(conditions, fmt.Sprintf("delivery_date = $%d", len(args)))
	}

	query := `
		SELECT id, number, household_id, vendor_id, status, delivery_date, total, notes, created_at, version
		FROM orders
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// 列表页不带订单项，详情页才逐个取
	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order := &domain.Order{}
		dst := []any{&order.ID, &order.Number, &order.HouseholdID, &order.VendorID, &order.Status, &order.DeliveryDate, &order.Total, &order.Notes, &order.CreatedAt, &order.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *Repository) UpdateOrderStatus(order *domain.Order) error {
	query := `
		UPDATE orders
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, order.Status, order.ID, order.Version).Scan(&order.Version); err != nil {
		return err
	}

	return nil
}

// ReplaceOrderItems 整单替换订单项并重写金额。
// 订单项没有字段级更新原语，每次编辑都重写整组订单项，和订单金额一起在事务里提交
func (r *Repository) ReplaceOrderItems(order *domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE orders
		SET
			total = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, order.Total, order.ID, order.Version).Scan(&order.Version); err != nil {
		return err
	}

	query = `DELETE FROM order_items WHERE order_id = $1`
	if _, err := tx.ExecContext(ctx, query, order.ID); err != nil {
		return err
	}

	for i := range order.Items {
		query = `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, is_substituted, original_product_id, original_product_name, substitution_note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`
		item := &order.Items[i]
		params := []any{order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.IsSubstituted, item.OriginalProductID, item.OriginalProductName, item.SubstitutionNote}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&item.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteOrder(id int64) error {
	query := `
		DELETE FROM orders WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
