package cart

import (
	"context"
	"log"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

// Service loads a session's cart, applies one mutation, and writes the
// result back. Every mutation persists the full line list; reads never fail
// the caller (a broken store behaves like an empty cart).
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the session's cart. Store errors are logged and the session
// continues with an empty cart.
func (s *Service) Get(ctx context.Context, sessionID string) *Cart {
	lines, err := s.store.Load(ctx, sessionID)
	if err != nil {
		log.Printf("cart load error for session %s: %v", sessionID, err)
		return New()
	}
	return FromLines(lines)
}

func (s *Service) Add(ctx context.Context, sessionID string, product domain.Product) (*Cart, error) {
	c := s.Get(ctx, sessionID)
	c.Add(product)
	if err := s.store.Save(ctx, sessionID, c.Lines()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	c := s.Get(ctx, sessionID)
	c.SetQuantity(productID, quantity)
	if err := s.store.Save(ctx, sessionID, c.Lines()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
