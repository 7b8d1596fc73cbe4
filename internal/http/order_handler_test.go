package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

func authedRequest(method, target, body string, userID int64, isAdmin bool) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(WithUser(r.Context(), userID, isAdmin))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	checkout := &mockCheckoutService{
		Order: &domain.Order{
			ID:          1,
			OrderNumber: "UMI-20260829-0001",
			Status:      domain.OrderStatusPending,
			TotalAmount: decimal.NewFromInt(180000),
		},
	}
	h := NewOrderHandler(checkout, &mockOrderService{})

	body := `{"customer_name":"Budi Santoso","phone":"081234567890","shipping_address":"Jl. Merdeka No. 1","payment_method":"cod"}`
	w := httptest.NewRecorder()
	h.PlaceOrder(w, authedRequest(http.MethodPost, "/order", body, 7, false))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(7), checkout.CapturedUserID)
	assert.Equal(t, "cod", checkout.CapturedDetails.PaymentMethod)

	var resp PlaceOrderResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UMI-20260829-0001", resp.OrderNumber)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(180000)))
}

func TestPlaceOrderHandler_EmptyCart(t *testing.T) {
	checkout := &mockCheckoutService{Err: domain.ErrEmptyCart}
	h := NewOrderHandler(checkout, &mockOrderService{})

	w := httptest.NewRecorder()
	h.PlaceOrder(w, authedRequest(http.MethodPost, "/order", `{"payment_method":"cod"}`, 7, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty")
}

func TestPlaceOrderHandler_InsufficientStock(t *testing.T) {
	checkout := &mockCheckoutService{Err: &domain.InsufficientStockError{ProductName: "Beras Premium"}}
	h := NewOrderHandler(checkout, &mockOrderService{})

	w := httptest.NewRecorder()
	h.PlaceOrder(w, authedRequest(http.MethodPost, "/order", `{"payment_method":"cod"}`, 7, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Beras Premium")
}

func TestPlaceOrderHandler_BadJSON(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{})

	w := httptest.NewRecorder()
	h.PlaceOrder(w, authedRequest(http.MethodPost, "/order", `{not json`, 7, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderHandler_NoUser(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(`{}`))
	h.PlaceOrder(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUserOrders_EmptyIsArray(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{})

	w := httptest.NewRecorder()
	h.ListUserOrders(w, authedRequest(http.MethodGet, "/user/orders", "", 7, false))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestGetUserOrder_NotFound(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodGet, "/user/orders/99", "", 7, false), "id", "99")
	h.GetUserOrder(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserOrder_BadID(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodGet, "/user/orders/abc", "", 7, false), "id", "abc")
	h.GetUserOrder(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	orders := &mockOrderService{
		Orders: []*domain.Order{{ID: 4, OrderNumber: "UMI-20260829-0004", Status: domain.OrderStatusPending}},
	}
	h := NewOrderHandler(&mockCheckoutService{}, orders)

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodPut, "/admin/orders/4", `{"status":"shipped"}`, 1, true), "id", "4")
	h.UpdateOrderStatus(w, r)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "shipped", orders.CapturedStatus)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodPut, "/admin/orders/4", `{"status":"refunded"}`, 1, true), "id", "4")
	h.UpdateOrderStatus(w, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	h := NewOrderHandler(&mockCheckoutService{}, &mockOrderService{Err: repository.ErrOrderNotFound})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodPut, "/admin/orders/99", `{"status":"shipped"}`, 1, true), "id", "99")
	h.UpdateOrderStatus(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
