package service

import (
	"context"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

// GetUserOrder scopes the lookup to the requesting user; an order belonging
// to someone else reads as not found.
func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	return s.repo.GetOrderForUser(ctx, userID, orderID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAllOrders(ctx)
}

// UpdateStatus applies an administrative status change. Cancelling an order
// does not restock its lines; inventory is reconciled manually.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, processing, shipped, delivered, cancelled"}
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatus(status))
}
