package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/penzolll/umi-shop-digital/internal/domain"
)

const productColumns = `id, name, COALESCE(description, ''), price, discount_percentage,
	COALESCE(image_url, ''), stock, unit, category_id, is_active, featured, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.DiscountPercentage,
		&p.ImageURL,
		&p.Stock,
		&p.Unit,
		&p.CategoryID,
		&p.IsActive,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any

	if !filter.IncludeInactive {
		query += ` AND is_active = TRUE`
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if filter.FeaturedOnly {
		query += ` AND featured = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product row iteration: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product %d: %w", id, err)
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products
		(name, description, price, discount_percentage, image_url, stock, unit, category_id, is_active, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.DiscountPercentage, p.ImageURL,
		p.Stock, p.Unit, p.CategoryID, p.IsActive, p.Featured).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET
		name = $1, description = $2, price = $3, discount_percentage = $4, image_url = $5,
		stock = $6, unit = $7, category_id = $8, is_active = $9, featured = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.DiscountPercentage, p.ImageURL,
		p.Stock, p.Unit, p.CategoryID, p.IsActive, p.Featured, p.ID).
		Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

// DeleteProduct deactivates products that already appear on orders instead
// of deleting them, so historical order lines keep their product reference.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	var referenced bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("check product references: %w", err)
	}

	var res sql.Result
	if referenced {
		res, err = r.db.ExecContext(ctx,
			`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	} else {
		res, err = r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	}
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product result: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
