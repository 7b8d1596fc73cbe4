package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/penzolll/umi-shop-digital/internal/domain"
	"github.com/penzolll/umi-shop-digital/internal/repository"
	"github.com/penzolll/umi-shop-digital/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps domain, service and repository errors onto the
// HTTP surface. Unknown errors become an opaque 500; internals never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	var unavailable *domain.ProductUnavailableError
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", validation.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.As(err, &unavailable):
		respondError(w, http.StatusBadRequest, "product_unavailable", unavailable.Error())
	case errors.As(err, &insufficient):
		respondError(w, http.StatusBadRequest, "insufficient_stock", insufficient.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, repository.ErrCartItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart item not found")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "not_found", "category not found")
	case errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", "user not found")
	case errors.Is(err, repository.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
