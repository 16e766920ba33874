package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (r *Repository) CreateProduct(product *domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO products (vendor_id, sku, name, category, unit, price, sale_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_available, created_at, version
	`

	args := []any{product.VendorID, product.SKU, product.Name, product.Category, product.Unit, product.Price, product.SalePrice}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&product.ID, &product.IsAvailable, &product.CreatedAt, &product.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetProductByID(id int64) (*domain.Product, error) {
	query := `
		SELECT vendor_id, sku, name, category, unit, price, sale_price, is_available, created_at, version
		FROM products WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	product := &domain.Product{
		ID: id,
	}

	dst := []any{&product.VendorID, &product.SKU, &product.Name, &product.Category, &product.Unit, &product.Price, &product.SalePrice, &product.IsAvailable, &product.CreatedAt, &product.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *Repository) GetProductsByVendorID(vendorID int64) ([]*domain.Product, error) {
	query := `
		SELECT id, vendor_id, sku, name, category, unit, price, sale_price, is_available, created_at, version
		FROM products
		WHERE vendor_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductRows(rows)
}

func (r *Repository) GetAllProducts() ([]*domain.Product, error) {
	query := `
		SELECT id, vendor_id, sku, name, category, unit, price, sale_price, is_available, created_at, version
		FROM products
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProductRows(rows)
}

func scanProductRows(rows *sql.Rows) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0)
	for rows.Next() {
		product := &domain.Product{}
		dst := []any{&product.ID, &product.VendorID, &product.SKU, &product.Name, &product.Category, &product.Unit, &product.Price, &product.SalePrice, &product.IsAvailable, &product.CreatedAt, &product.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) UpdateProduct(product *domain.Product) error {
	query := `
		UPDATE products
		SET
			sku = $1,
			name = $2,
			category = $3,
			unit = $4,
			price = $5,
			sale_price = $6,
			is_available = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{product.SKU, product.Name, product.Category, product.Unit, product.Price, product.SalePrice, product.IsAvailable, product.ID, product.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&product.CreatedAt, &product.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteProduct(id int64) error {
	query := `
		DELETE FROM products WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// UpsertProductsBySKU CSV 导入的对账写入：同一个供应商下按 SKU 对齐，
// 已有的更新价格等字段，没有的新建，整批在一个事务里完成
func (r *Repository) UpsertProductsBySKU(vendorID int64, products []*domain.Product) (created int, updated int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO products (vendor_id, sku, name, category, unit, price, sale_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vendor_id, sku) DO UPDATE
		SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			unit = EXCLUDED.unit,
			price = EXCLUDED.price,
			sale_price = EXCLUDED.sale_price,
			version = products.version + 1
		RETURNING id, (xmax = 0) AS inserted
	`

	for _, product := range products {
		var inserted bool
		args := []any{vendorID, product.SKU, product.Name, product.Category, product.Unit, product.Price, product.SalePrice}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&product.ID, &inserted); err != nil {
			return 0, 0, err
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	return created, updated, nil
}
