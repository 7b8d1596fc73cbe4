package cache

import (
	"context"
	"errors"

	"github.com/penzolll/umi-shop-digital/internal/domain"
)

var ErrCacheMiss = errors.New("cart not found in cache")

type CartCache interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Set(ctx context.Context, userID int64, cart *domain.Cart) error
	Delete(ctx context.Context, userID int64) error
}
