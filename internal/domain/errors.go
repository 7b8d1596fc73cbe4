package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a checkout with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrOrderNumberCollision reports a unique-constraint hit on the order
	// number. Callers retry with a freshly generated number.
	ErrOrderNumberCollision = errors.New("order number already taken")
)

// ProductUnavailableError aborts a checkout when a cart line references a
// missing or inactive product.
type ProductUnavailableError struct {
	ProductName string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s is not available", e.ProductName)
}

// InsufficientStockError aborts a checkout when a cart line asks for more
// units than are live in stock.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
