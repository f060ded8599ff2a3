package catalog

import (
	"context"
	"errors"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for product data operations
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	InsertProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, id string, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
