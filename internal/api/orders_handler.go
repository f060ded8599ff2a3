package api

import (
	"context"
	"net/http"
	"time"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/01072k1anhCong2/kinhkong/internal/orders"
)

type OrdersHandler struct {
	repo    orders.Repository
	timeout time.Duration
}

func NewOrdersHandler(repo orders.Repository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{repo: repo, timeout: timeout}
}

type OrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// ListMine returns the signed-in user's orders, newest first.
func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign-in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.repo.ListOrdersByUser(ctx, identity.UID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to load orders")
		return
	}
	if list == nil {
		list = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: list})
}
