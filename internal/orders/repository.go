package orders

import (
	"context"
	"errors"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository defines the interface for order data operations. Orders are
// inserted once at checkout; UpdateFulfillment is the only mutation path
// and touches nothing beyond status, tracking number and updated_at.
type Repository interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateFulfillment(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) error
}
