package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/01072k1anhCong2/kinhkong/internal/checkout"
	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/01072k1anhCong2/kinhkong/internal/metrics"
)

type CheckoutHandler struct {
	manager *checkout.Manager
	metrics *metrics.Registry
	timeout time.Duration
}

func NewCheckoutHandler(manager *checkout.Manager, m *metrics.Registry, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, metrics: m, timeout: timeout}
}

type ShippingRequestDTO struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Address    string `json:"address"`
	Building   string `json:"building"`
}

type PaymentRequestDTO struct {
	Method string `json:"method"`
}

type ValidationErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missing_fields"`
}

type SignInRequiredResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
	From     string `json:"from"`
}

type OrderPlacedResponse struct {
	Order *domain.Order `json:"order"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	state, err := h.manager.Begin(ctx, sessionIDFromContext(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	state, err := h.manager.Current(ctx, sessionIDFromContext(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *CheckoutHandler) Shipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	info := domain.CustomerInfo{
		Name:       req.Name,
		Phone:      req.Phone,
		PostalCode: req.PostalCode,
		Prefecture: req.Prefecture,
		City:       req.City,
		Address:    req.Address,
		Building:   req.Building,
	}

	state, err := h.manager.SetShipping(ctx, sessionIDFromContext(r.Context()), info)
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	state, err := h.manager.SelectPayment(ctx, sessionIDFromContext(r.Context()), domain.PaymentMethod(req.Method))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	state, err := h.manager.Next(ctx, sessionIDFromContext(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	state, err := h.manager.Back(ctx, sessionIDFromContext(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.manager.PlaceOrder(ctx, sessionIDFromContext(r.Context()), identityFromContext(r.Context()))
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	h.metrics.OrdersPlaced.Inc()
	respondJSON(w, http.StatusCreated, OrderPlacedResponse{Order: order})
}

func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, err error) {
	var validation *checkout.ValidationError
	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:         "missing_shipping_fields",
			Message:       validation.Error(),
			MissingFields: validation.MissingFields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrNoCheckout):
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
	case errors.Is(err, checkout.ErrNotAtConfirmation):
		respondError(w, http.StatusConflict, "not_at_confirmation", "checkout has not reached confirmation")
	case errors.Is(err, checkout.ErrNoPaymentMethod):
		respondError(w, http.StatusBadRequest, "no_payment_method", "no payment method selected")
	case errors.Is(err, checkout.ErrInvalidPayment):
		respondError(w, http.StatusBadRequest, "invalid_payment", "unknown payment method")
	case errors.Is(err, checkout.ErrSignInRequired):
		respondJSON(w, http.StatusUnauthorized, SignInRequiredResponse{
			Error:    "sign_in_required",
			Redirect: "/login",
			From:     "/checkout",
		})
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", "an order submission is already in flight")
	default:
		h.metrics.OrderSubmitFailures.Inc()
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "failed to place order")
	}
}
