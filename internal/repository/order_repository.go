package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/penzolll/umi-shop-digital/internal/domain"
)

// PlaceOrder runs the whole checkout as one transaction: re-read live
// product state, validate availability and stock, price the lines, assign
// an order number, persist order + lines, decrement stock, clear the cart
// and stage the outbox event. Any failure rolls everything back.
func (r *Repository) PlaceOrder(ctx context.Context, in *CheckoutInput) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback()

	lines, err := checkoutCartLines(ctx, tx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	priced := make([]domain.PricedLine, 0, len(lines))
	for _, line := range lines {
		pl, err := priceLine(ctx, tx, line)
		if err != nil {
			return nil, err
		}
		priced = append(priced, *pl)
	}

	totals := domain.ComputeTotals(priced, in.TaxRate, in.ShippingCost)

	now := time.Now()
	seq, err := nextOrderSequence(ctx, tx, now)
	if err != nil {
		return nil, err
	}
	orderNumber := domain.FormatOrderNumber(in.NumberPrefix, now, seq)

	order := &domain.Order{
		OrderNumber:     orderNumber,
		UserID:          in.UserID,
		Status:          domain.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingCost:    totals.ShippingCost,
		Discount:        totals.Discount,
		TotalAmount:     totals.TotalAmount,
		PaymentMethod:   in.Details.PaymentMethod,
		CustomerName:    in.Details.CustomerName,
		Phone:           in.Details.Phone,
		ShippingAddress: in.Details.ShippingAddress,
		Notes:           in.Details.Notes,
	}

	insertOrder := `INSERT INTO orders
		(order_number, user_id, status, subtotal, tax, shipping_cost, discount, total_amount,
		 payment_method, customer_name, phone, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, insertOrder,
		order.OrderNumber,
		order.UserID,
		order.Status,
		order.Subtotal,
		order.Tax,
		order.ShippingCost,
		order.Discount,
		order.TotalAmount,
		order.PaymentMethod,
		order.CustomerName,
		order.Phone,
		order.ShippingAddress,
		order.Notes,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, domain.ErrOrderNumberCollision
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	insertItem := `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4) RETURNING id`
	decrementStock := `UPDATE products SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1`

	for _, pl := range priced {
		item := domain.OrderLine{
			OrderID:     order.ID,
			ProductID:   pl.ProductID,
			ProductName: pl.ProductName,
			Quantity:    pl.Quantity,
			Price:       pl.UnitPrice,
		}
		if err := tx.QueryRowContext(ctx, insertItem,
			item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, item)

		res, err := tx.ExecContext(ctx, decrementStock, pl.Quantity, pl.ProductID)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrement stock result: %w", err)
		}
		if affected == 0 {
			// The FOR UPDATE read above should make this unreachable; the
			// stock guard in the UPDATE is the authoritative check.
			return nil, &domain.InsufficientStockError{ProductName: pl.ProductName}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, in.UserID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := stageOrderCreatedEvent(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout tx: %w", err)
	}
	return order, nil
}

// checkoutCartLines reads the user's cart inside the transaction so the
// line set cannot change underneath the checkout.
func checkoutCartLines(ctx context.Context, tx *sql.Tx, userID int64) ([]domain.CartLine, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		line := domain.CartLine{UserID: userID}
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cart line iteration: %w", err)
	}
	return lines, nil
}

// priceLine re-fetches the live product row under a row lock, validates it
// against the cart line and resolves the purchase-time unit price.
func priceLine(ctx context.Context, tx *sql.Tx, line domain.CartLine) (*domain.PricedLine, error) {
	var (
		name     string
		price    decimal.Decimal
		discount *decimal.Decimal
		stock    int
		isActive bool
	)
	err := tx.QueryRowContext(ctx,
		`SELECT name, price, discount_percentage, stock, is_active
		 FROM products WHERE id = $1 FOR UPDATE`, line.ProductID).
		Scan(&name, &price, &discount, &stock, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ProductUnavailableError{ProductName: fmt.Sprintf("#%d", line.ProductID)}
	}
	if err != nil {
		return nil, fmt.Errorf("lock product %d: %w", line.ProductID, err)
	}

	if !isActive {
		return nil, &domain.ProductUnavailableError{ProductName: name}
	}
	if stock < line.Quantity {
		return nil, &domain.InsufficientStockError{ProductName: name}
	}

	return &domain.PricedLine{
		ProductID:   line.ProductID,
		ProductName: name,
		Quantity:    line.Quantity,
		UnitPrice:   domain.EffectiveUnitPrice(price, discount),
	}, nil
}

// nextOrderSequence claims the next per-day sequence number atomically.
// The upsert takes a row lock on today's counter, so two checkouts on the
// same day can never observe the same value.
func nextOrderSequence(ctx context.Context, tx *sql.Tx, now time.Time) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO order_counters (day, seq) VALUES ($1, 1)
		 ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		 RETURNING seq`, now.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next order sequence: %w", err)
	}
	return seq, nil
}

type orderCreatedPayload struct {
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func stageOrderCreatedEvent(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	payload, err := json.Marshal(orderCreatedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, aggregate_id, event_type, payload)
		 VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), order.OrderNumber, "order.created", payload)
	if err != nil {
		return fmt.Errorf("stage outbox event: %w", err)
	}
	return nil
}

const orderColumns = `id, order_number, user_id, status, subtotal, tax, shipping_cost,
	discount, total_amount, payment_method, customer_name, phone, shipping_address,
	COALESCE(notes, ''), created_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.Status,
		&order.Subtotal,
		&order.Tax,
		&order.ShippingCost,
		&order.Discount,
		&order.TotalAmount,
		&order.PaymentMethod,
		&order.CustomerName,
		&order.Phone,
		&order.ShippingAddress,
		&order.Notes,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachOrderItems(ctx, orders)
}

func (r *Repository) GetOrderForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order %d: %w", orderID, err)
	}

	orders, err := r.attachOrderItems(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *Repository) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachOrderItems(ctx, orders)
}

// UpdateOrderStatus is the only post-creation mutation an order allows.
// Cancellation does not restock; inventory is reconciled manually.
func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	query := `UPDATE orders SET status = $1 WHERE id = $2 RETURNING ` + orderColumns
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, status, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	orders, err := r.attachOrderItems(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func collectOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order row iteration: %w", err)
	}
	return orders, nil
}

func (r *Repository) attachOrderItems(ctx context.Context, orders []*domain.Order) ([]*domain.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	query := `SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderLine
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order item iteration: %w", err)
	}
	return orders, nil
}
