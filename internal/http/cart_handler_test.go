package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
)

func TestGetCartHandler(t *testing.T) {
	cart := domain.BuildCart(7, []domain.CartItem{
		{ID: 1, ProductID: 10, Quantity: 2, Product: domain.CartProduct{ID: 10, Name: "Gula", Price: decimal.NewFromInt(18000)}},
	})
	h := NewCartHandler(&mockCartService{Cart: cart})

	w := httptest.NewRecorder()
	h.GetCart(w, authedRequest(http.MethodGet, "/cart", "", 7, false))

	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Items []json.RawMessage `json:"items"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Count)
}

func TestGetCartHandler_EmptyCartEncodesItemsAsArray(t *testing.T) {
	h := NewCartHandler(&mockCartService{})

	w := httptest.NewRecorder()
	h.GetCart(w, authedRequest(http.MethodGet, "/cart", "", 7, false))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestGetCartHandler_NoUser(t *testing.T) {
	h := NewCartHandler(&mockCartService{})

	w := httptest.NewRecorder()
	h.GetCart(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddItemHandler(t *testing.T) {
	h := NewCartHandler(&mockCartService{
		Line: &domain.CartLine{ID: 1, UserID: 7, ProductID: 10, Quantity: 2},
	})

	w := httptest.NewRecorder()
	h.AddItem(w, authedRequest(http.MethodPost, "/cart", `{"product_id":10,"quantity":2}`, 7, false))

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAddItemHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero quantity", `{"product_id":10,"quantity":0}`},
		{"negative quantity", `{"product_id":10,"quantity":-1}`},
		{"missing product", `{"quantity":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCartHandler(&mockCartService{})

			w := httptest.NewRecorder()
			h.AddItem(w, authedRequest(http.MethodPost, "/cart", tt.body, 7, false))

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestAddItemHandler_ProductNotFound(t *testing.T) {
	h := NewCartHandler(&mockCartService{Err: repository.ErrProductNotFound})

	w := httptest.NewRecorder()
	h.AddItem(w, authedRequest(http.MethodPost, "/cart", `{"product_id":99,"quantity":1}`, 7, false))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItemHandler(t *testing.T) {
	h := NewCartHandler(&mockCartService{
		Line: &domain.CartLine{ID: 3, UserID: 7, ProductID: 10, Quantity: 5},
	})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodPut, "/cart/3", `{"quantity":5}`, 7, false), "id", "3")
	h.UpdateItem(w, r)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var line domain.CartLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))
	assert.Equal(t, 5, line.Quantity)
}

func TestUpdateItemHandler_BadID(t *testing.T) {
	h := NewCartHandler(&mockCartService{})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodPut, "/cart/abc", `{"quantity":5}`, 7, false), "id", "abc")
	h.UpdateItem(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveItemHandler(t *testing.T) {
	h := NewCartHandler(&mockCartService{})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodDelete, "/cart/3", "", 7, false), "id", "3")
	h.RemoveItem(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveItemHandler_NotFound(t *testing.T) {
	h := NewCartHandler(&mockCartService{Err: repository.ErrCartItemNotFound})

	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(http.MethodDelete, "/cart/99", "", 7, false), "id", "99")
	h.RemoveItem(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
