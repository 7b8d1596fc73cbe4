package http

import (
	"context"
	"errors"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
	"github.com/penzolll/umi-shop-digital/internal/service"
)

type mockCheckoutService struct {
	Order           *domain.Order
	Err             error
	CapturedUserID  int64
	CapturedDetails domain.ShippingDetails
}

func (m *mockCheckoutService) PlaceOrder(_ context.Context, userID int64, details domain.ShippingDetails) (*domain.Order, error) {
	m.CapturedUserID = userID
	m.CapturedDetails = details
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

type mockOrderService struct {
	Orders         []*domain.Order
	Err            error
	CapturedStatus string
}

func (m *mockOrderService) ListUserOrders(_ context.Context, _ int64) ([]*domain.Order, error) {
	return m.Orders, m.Err
}

func (m *mockOrderService) GetUserOrder(_ context.Context, _, _ int64) (*domain.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Orders) == 0 {
		return nil, repository.ErrOrderNotFound
	}
	return m.Orders[0], nil
}

func (m *mockOrderService) ListAllOrders(_ context.Context) ([]*domain.Order, error) {
	return m.Orders, m.Err
}

func (m *mockOrderService) UpdateStatus(_ context.Context, _ int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, &service.ValidationError{Field: "status", Message: "invalid"}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	m.CapturedStatus = status
	if len(m.Orders) == 0 {
		return nil, repository.ErrOrderNotFound
	}
	return m.Orders[0], nil
}

type mockCartService struct {
	Cart *domain.Cart
	Line *domain.CartLine
	Err  error
}

func (m *mockCartService) GetCart(_ context.Context, userID int64) (*domain.Cart, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Cart != nil {
		return m.Cart, nil
	}
	return domain.BuildCart(userID, nil), nil
}

func (m *mockCartService) AddItem(_ context.Context, _, _ int64, _ int) (*domain.CartLine, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Line, nil
}

func (m *mockCartService) UpdateQuantity(_ context.Context, _, _ int64, _ int) (*domain.CartLine, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Line, nil
}

func (m *mockCartService) RemoveItem(_ context.Context, _, _ int64) error {
	return m.Err
}

// mockTokenParser accepts a single hard-coded token.
type mockTokenParser struct {
	Token  string
	Claims *service.Claims
}

func (m *mockTokenParser) ParseToken(tokenString string) (*service.Claims, error) {
	if tokenString != m.Token {
		return nil, errors.New("token signature is invalid")
	}
	return m.Claims, nil
}
