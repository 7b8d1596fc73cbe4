package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, product, quantity) row pending purchase.
type CartLine struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartProduct is the product snapshot joined onto a cart line for display.
// Prices here are advisory; checkout re-reads live product state.
type CartProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Stock    int             `json:"stock"`
	Unit     string          `json:"unit"`
}

type CartItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   CartProduct     `json:"product"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	UserID int64           `json:"user_id"`
	Items  []CartItem      `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
}

// BuildCart assembles the display view, summing line subtotals at list price.
func BuildCart(userID int64, items []CartItem) *Cart {
	total := decimal.Zero
	for i := range items {
		items[i].Subtotal = items[i].Product.Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		total = total.Add(items[i].Subtotal)
	}
	if items == nil {
		items = []CartItem{}
	}
	return &Cart{UserID: userID, Items: items, Total: total, Count: len(items)}
}
