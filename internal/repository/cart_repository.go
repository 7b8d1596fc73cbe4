package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/penzolll/umi-shop-digital/internal/domain"
)

func (r *Repository) GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	query := `SELECT ci.id, ci.product_id, ci.quantity,
		p.id, p.name, p.price, COALESCE(p.image_url, ''), p.stock, p.unit
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Quantity,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Price,
			&item.Product.ImageURL,
			&item.Product.Stock,
			&item.Product.Unit,
		); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cart row iteration: %w", err)
	}
	return items, nil
}

func (r *Repository) CountCartLines(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart lines: %w", err)
	}
	return count, nil
}

// AddCartItem upserts a line, merging quantities for a product already in
// the cart. The stock check here is advisory; checkout re-validates against
// live stock inside its own transaction.
func (r *Repository) AddCartItem(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin add-item tx: %w", err)
	}
	defer tx.Rollback()

	var (
		name     string
		stock    int
		isActive bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, stock, is_active FROM products WHERE id = $1`, productID).
		Scan(&name, &stock, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product %d: %w", productID, err)
	}
	if !isActive {
		return nil, &domain.ProductUnavailableError{ProductName: name}
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("query existing quantity: %w", err)
	}
	if stock < existing+quantity {
		return nil, &domain.InsufficientStockError{ProductName: name}
	}

	line := &domain.CartLine{UserID: userID, ProductID: productID}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		 RETURNING id, quantity, created_at, updated_at`,
		userID, productID, quantity).
		Scan(&line.ID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add-item tx: %w", err)
	}
	return line, nil
}

func (r *Repository) UpdateCartItemQuantity(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartLine, error) {
	var (
		name  string
		stock int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT p.name, p.stock FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.id = $1 AND ci.user_id = $2`, itemID, userID).
		Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item %d: %w", itemID, err)
	}
	if stock < quantity {
		return nil, &domain.InsufficientStockError{ProductName: name}
	}

	line := &domain.CartLine{ID: itemID, UserID: userID}
	err = r.db.QueryRowContext(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3
		 RETURNING product_id, quantity, created_at, updated_at`,
		quantity, itemID, userID).
		Scan(&line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart item %d: %w", itemID, err)
	}
	return line, nil
}

func (r *Repository) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete cart item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item result: %w", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *Repository) ClearCart(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
