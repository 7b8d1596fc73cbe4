package service

import (
	"context"
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/penzolll/umi-shop-digital/internal/cache"
	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/metrics"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

// orderNumberRetries bounds regeneration attempts when the unique index on
// order_number reports a collision.
const orderNumberRetries = 3

type CheckoutConfig struct {
	TaxRate        decimal.Decimal
	ShippingCost   decimal.Decimal
	NumberPrefix   string
	PaymentMethods []string
}

func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		TaxRate:        decimal.NewFromFloat(0.10),
		ShippingCost:   decimal.NewFromInt(15000),
		NumberPrefix:   "UMI",
		PaymentMethods: []string{"cod", "bank_transfer", "e_wallet"},
	}
}

// checkoutRepository is the slice of the repository the processor needs.
type checkoutRepository interface {
	PlaceOrder(ctx context.Context, in *repository.CheckoutInput) (*domain.Order, error)
	CountCartLines(ctx context.Context, userID int64) (int, error)
}

type CheckoutService struct {
	repo  checkoutRepository
	cache cache.CartCache
	stats *metrics.StoreMetrics
	cfg   CheckoutConfig
}

func NewCheckoutService(repo checkoutRepository, cartCache cache.CartCache, stats *metrics.StoreMetrics, cfg CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		repo:  repo,
		cache: cartCache,
		stats: stats,
		cfg:   cfg,
	}
}

// PlaceOrder validates the shipping details, rejects empty carts before
// opening a transaction, and runs the checkout with a bounded retry on
// order-number collisions. All order effects commit atomically or not at all.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int64, details domain.ShippingDetails) (*domain.Order, error) {
	if err := s.validateDetails(details); err != nil {
		return nil, err
	}

	count, err := s.repo.CountCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		s.countFailure("empty_cart")
		return nil, domain.ErrEmptyCart
	}

	in := &repository.CheckoutInput{
		UserID:       userID,
		Details:      details,
		TaxRate:      s.cfg.TaxRate,
		ShippingCost: s.cfg.ShippingCost,
		NumberPrefix: s.cfg.NumberPrefix,
	}

	var order *domain.Order
	for attempt := 1; ; attempt++ {
		order, err = s.repo.PlaceOrder(ctx, in)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrOrderNumberCollision) && attempt < orderNumberRetries {
			log.Printf("order number collision for user %d, retrying (attempt %d)", userID, attempt)
			continue
		}
		s.countFailure(failureReason(err))
		return nil, err
	}

	s.invalidateCart(userID)
	if s.stats != nil {
		s.stats.OrdersPlaced.Inc()
	}
	return order, nil
}

func (s *CheckoutService) validateDetails(d domain.ShippingDetails) error {
	if d.CustomerName == "" {
		return &ValidationError{Field: "customer_name", Message: "is required"}
	}
	if utf8.RuneCountInString(d.CustomerName) > 255 {
		return &ValidationError{Field: "customer_name", Message: "must be at most 255 characters"}
	}
	if d.Phone == "" {
		return &ValidationError{Field: "phone", Message: "is required"}
	}
	if utf8.RuneCountInString(d.Phone) > 20 {
		return &ValidationError{Field: "phone", Message: "must be at most 20 characters"}
	}
	if d.ShippingAddress == "" {
		return &ValidationError{Field: "shipping_address", Message: "is required"}
	}
	if d.PaymentMethod == "" {
		return &ValidationError{Field: "payment_method", Message: "is required"}
	}
	for _, m := range s.cfg.PaymentMethods {
		if d.PaymentMethod == m {
			return nil
		}
	}
	return &ValidationError{Field: "payment_method", Message: "is not a supported payment method"}
}

// invalidateCart drops the cached cart after the transaction cleared the
// real one. Best effort: a stale cache entry expires on its own TTL.
func (s *CheckoutService) invalidateCart(userID int64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}

func (s *CheckoutService) countFailure(reason string) {
	if s.stats != nil {
		s.stats.CheckoutFailures.WithLabelValues(reason).Inc()
	}
}

func failureReason(err error) string {
	var unavailable *domain.ProductUnavailableError
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &unavailable):
		return "product_unavailable"
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrOrderNumberCollision):
		return "order_number_collision"
	default:
		return "persistence"
	}
}
