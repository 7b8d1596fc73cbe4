package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

func TestUpdateStatus(t *testing.T) {
	repo := &mockOrderRepository{
		Orders: []*domain.Order{{ID: 1, Status: domain.OrderStatusPending}},
	}
	svc := NewOrderService(repo)

	order, err := svc.UpdateStatus(context.Background(), 1, "shipped")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
	assert.Equal(t, domain.OrderStatusShipped, repo.UpdatedStatus)
}

func TestUpdateStatus_InvalidValue(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	_, err := svc.UpdateStatus(context.Background(), 1, "refunded")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "status", validation.Field)
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	_, err := svc.UpdateStatus(context.Background(), 99, "shipped")

	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestGetUserOrder_NotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{})

	_, err := svc.GetUserOrder(context.Background(), 7, 99)

	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}
