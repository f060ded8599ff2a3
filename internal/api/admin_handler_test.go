package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/01072k1anhCong2/kinhkong/internal/auth"
	"github.com/01072k1anhCong2/kinhkong/internal/catalog"
	"github.com/01072k1anhCong2/kinhkong/internal/domain"
	"github.com/01072k1anhCong2/kinhkong/internal/events"
	"github.com/01072k1anhCong2/kinhkong/internal/orders"
)

type stubOrdersRepo struct {
	store map[string]*domain.Order
	err   error
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{store: make(map[string]*domain.Order)}
}

func (s *stubOrdersRepo) InsertOrder(ctx context.Context, order *domain.Order) error {
	if s.err != nil {
		return s.err
	}
	s.store[order.ID] = order
	return nil
}

func (s *stubOrdersRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	order, ok := s.store[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Order
	for _, order := range s.store {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Order
	for _, order := range s.store {
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateFulfillment(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error {
	if s.err != nil {
		return s.err
	}
	order, ok := s.store[id]
	if !ok {
		return orders.ErrOrderNotFound
	}
	order.Status = status
	order.TrackingNumber = trackingNumber
	order.UpdatedAt = time.Now()
	return nil
}

func newTestAdminHandler(repo *stubCatalogRepo, ordersRepo *stubOrdersRepo, pub *recordingPublisher) *AdminHandler {
	cat := catalog.NewService(repo, nopCache{})
	return NewAdminHandler(cat, ordersRepo, pub, 5*time.Second)
}

func TestCreateProduct_SplitsFeatures(t *testing.T) {
	repo := &stubCatalogRepo{products: map[string]domain.Product{}}
	handler := newTestAdminHandler(repo, newStubOrdersRepo(), &recordingPublisher{})

	body, _ := json.Marshal(ProductRequestDTO{
		Name:     "バナナハンモック",
		Price:    3000,
		Features: "コットン100%, 耐荷重120kg , ",
	})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

	handler.CreateProduct(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response domain.Product
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.ID == "" {
		t.Error("Expected an assigned product ID")
	}
	want := []string{"コットン100%", "耐荷重120kg"}
	if len(response.Features) != len(want) {
		t.Fatalf("Expected features %v, got %v", want, response.Features)
	}
	for i := range want {
		if response.Features[i] != want[i] {
			t.Errorf("Expected feature '%s', got '%s'", want[i], response.Features[i])
		}
	}
}

func TestCreateProduct_MissingName(t *testing.T) {
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, newStubOrdersRepo(), &recordingPublisher{})

	body, _ := json.Marshal(ProductRequestDTO{Price: 3000})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

	handler.CreateProduct(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_product" {
		t.Errorf("Expected error code 'invalid_product', got '%s'", response.Code)
	}
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, newStubOrdersRepo(), &recordingPublisher{})

	body, _ := json.Marshal(ProductRequestDTO{Name: "x", Price: -1})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

	handler.CreateProduct(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, newStubOrdersRepo(), &recordingPublisher{})

	body, _ := json.Marshal(ProductRequestDTO{Name: "x", Price: 100})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/products/missing", bytes.NewReader(body))
	request = withURLParam(request, "id", "missing")

	handler.UpdateProduct(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestDeleteProduct_Success(t *testing.T) {
	repo := &stubCatalogRepo{products: map[string]domain.Product{
		"p1": testProduct("p1", 1200),
	}}
	handler := newTestAdminHandler(repo, newStubOrdersRepo(), &recordingPublisher{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/products/p1", nil)
	request = withURLParam(request, "id", "p1")

	handler.DeleteProduct(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("Expected status code %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if _, ok := repo.products["p1"]; ok {
		t.Error("Expected product deleted")
	}
}

func TestListOrders_Empty(t *testing.T) {
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, newStubOrdersRepo(), &recordingPublisher{})

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, httptest.NewRequest("GET", "/orders", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response OrdersResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Orders == nil {
		t.Error("Expected an empty array, got null")
	}
}

func TestUpdateFulfillment_Success(t *testing.T) {
	ordersRepo := newStubOrdersRepo()
	ordersRepo.store["o1"] = &domain.Order{
		ID:     "o1",
		UserID: "u1",
		Total:  2500,
		Status: domain.OrderStatusPending,
	}
	publisher := &recordingPublisher{}
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, ordersRepo, publisher)

	body, _ := json.Marshal(FulfillmentRequestDTO{Status: "shipped", TrackingNumber: "JP123456789"})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/orders/o1/fulfillment", bytes.NewReader(body))
	request = withURLParam(request, "id", "o1")

	handler.UpdateFulfillment(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if ordersRepo.store["o1"].Status != domain.OrderStatusShipped {
		t.Errorf("Expected status shipped, got '%s'", ordersRepo.store["o1"].Status)
	}
	if ordersRepo.store["o1"].TrackingNumber != "JP123456789" {
		t.Errorf("Expected tracking number set, got '%s'", ordersRepo.store["o1"].TrackingNumber)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != events.TypeFulfillmentUpdated {
		t.Errorf("Expected one fulfillment_updated event, got %+v", publisher.events)
	}
	if len(publisher.events) == 1 && publisher.events[0].TrackingNumber != "JP123456789" {
		t.Errorf("Expected tracking number on event, got '%s'", publisher.events[0].TrackingNumber)
	}
}

func TestUpdateFulfillment_InvalidStatus(t *testing.T) {
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, newStubOrdersRepo(), &recordingPublisher{})

	body, _ := json.Marshal(FulfillmentRequestDTO{Status: "teleported"})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/orders/o1/fulfillment", bytes.NewReader(body))
	request = withURLParam(request, "id", "o1")

	handler.UpdateFulfillment(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_status" {
		t.Errorf("Expected error code 'invalid_status', got '%s'", response.Code)
	}
}

func TestUpdateFulfillment_NotFound(t *testing.T) {
	handler := newTestAdminHandler(&stubCatalogRepo{products: map[string]domain.Product{}}, newStubOrdersRepo(), &recordingPublisher{})

	body, _ := json.Marshal(FulfillmentRequestDTO{Status: "shipped"})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/orders/missing/fulfillment", bytes.NewReader(body))
	request = withURLParam(request, "id", "missing")

	handler.UpdateFulfillment(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestListMine_Unauthorized(t *testing.T) {
	handler := NewOrdersHandler(newStubOrdersRepo(), 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.ListMine(recorder, httptest.NewRequest("GET", "/orders", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestListMine_FiltersByUser(t *testing.T) {
	ordersRepo := newStubOrdersRepo()
	ordersRepo.store["o1"] = &domain.Order{ID: "o1", UserID: "u1", Total: 1000}
	ordersRepo.store["o2"] = &domain.Order{ID: "o2", UserID: "u2", Total: 9000}
	handler := NewOrdersHandler(ordersRepo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/orders", nil)
	request = withIdentity(request, &auth.Identity{UID: "u1", Email: "taro@example.com"})

	handler.ListMine(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response OrdersResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Orders) != 1 || response.Orders[0].ID != "o1" {
		t.Errorf("Expected only u1's order, got %+v", response.Orders)
	}
}

func TestListMine_RepoError(t *testing.T) {
	ordersRepo := newStubOrdersRepo()
	ordersRepo.err = errors.New("mongo down")
	handler := NewOrdersHandler(ordersRepo, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/orders", nil)
	request = withIdentity(request, &auth.Identity{UID: "u1"})

	handler.ListMine(recorder, request)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status code %d, got %d", http.StatusServiceUnavailable, recorder.Code)
	}
}
