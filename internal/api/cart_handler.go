package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/01072k1anhCong2/kinhkong/internal/cart"
	"github.com/01072k1anhCong2/kinhkong/internal/catalog"
	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/01072k1anhCong2/kinhkong/internal/metrics"
)

type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Service
	metrics *metrics.Registry
	timeout time.Duration
}

func NewCartHandler(carts *cart.Service, c *catalog.Service, m *metrics.Registry, timeout time.Duration) *CartHandler {
	return &CartHandler{carts: carts, catalog: c, metrics: m, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total int64             `json:"total"`
	Count int               `json:"count"`
}

func cartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items: c.Lines(),
		Total: c.Total(),
		Count: c.Count(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c := h.carts.Get(ctx, sessionIDFromContext(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.Get(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to load product")
		return
	}

	c, err := h.carts.Add(ctx, sessionIDFromContext(r.Context()), *product)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to save cart")
		return
	}

	h.metrics.CartItemsAdded.Inc()
	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// A quantity of zero or less removes the line.
	c, err := h.carts.SetQuantity(ctx, sessionIDFromContext(r.Context()), productID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to save cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.carts.Clear(ctx, sessionIDFromContext(r.Context())); err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart.New()))
}
