package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/01072k1anhCong2/kinhkong/internal/catalog"
	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/01072k1anhCong2/kinhkong/internal/events"
	"github.com/01072k1anhCong2/kinhkong/internal/orders"
)

// AdminHandler serves the back-office: product CRUD and order fulfillment.
// Every route behind it passes the RequireAdmin gate first.
type AdminHandler struct {
	catalog   *catalog.Service
	orders    orders.Repository
	publisher events.Publisher
	timeout   time.Duration
}

func NewAdminHandler(c *catalog.Service, o orders.Repository, p events.Publisher, timeout time.Duration) *AdminHandler {
	return &AdminHandler{catalog: c, orders: o, publisher: p, timeout: timeout}
}

// ProductRequestDTO carries the admin product form. Features arrive as one
// comma-separated string, the way the form field is typed.
type ProductRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url"`
	Features    string `json:"features"`
}

type FulfillmentRequestDTO struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

func (req *ProductRequestDTO) validate() (string, bool) {
	if req.Name == "" {
		return "name is required", false
	}
	if req.Price < 0 {
		return "price must not be negative", false
	}
	return "", true
}

func splitFeatures(s string) []string {
	var features []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_product", msg)
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Features:    splitFeatures(req.Features),
	}

	if err := h.catalog.Create(ctx, product); err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_product", msg)
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Features:    splitFeatures(req.Features),
	}

	if err := h.catalog.Update(ctx, id, product); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")

	if err := h.catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOrders returns every order in the store, newest first.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.orders.ListAllOrders(ctx)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to load orders")
		return
	}
	if list == nil {
		list = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: list})
}

// UpdateFulfillment changes an order's status and tracking number. Nothing
// else on the order is writable after checkout.
func (h *AdminHandler) UpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")

	var req FulfillmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.orders.UpdateFulfillment(ctx, id, status, req.TrackingNumber); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to update order")
		return
	}

	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		// The update is committed; without the fresh record we only skip the event.
		log.Printf("failed to reload order %s after fulfillment update: %v", id, err)
		respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
		return
	}

	if err := h.publisher.Publish(ctx, events.FulfillmentUpdated(order)); err != nil {
		log.Printf("failed to publish fulfillment updated event: %v", err)
	}

	respondJSON(w, http.StatusOK, order)
}
