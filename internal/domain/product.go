package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	Stock              int              `json:"stock"`
	Unit               string           `json:"unit"`
	CategoryID         *int64           `json:"category_id,omitempty"`
	IsActive           bool             `json:"is_active"`
	Featured           bool             `json:"featured"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// DiscountedPrice is the price a buyer actually pays right now.
func (p *Product) DiscountedPrice() decimal.Decimal {
	return EffectiveUnitPrice(p.Price, p.DiscountPercentage)
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter narrows product listings. Zero value lists all active products.
type ProductFilter struct {
	CategoryID      *int64
	FeaturedOnly    bool
	IncludeInactive bool
}
