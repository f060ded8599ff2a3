package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

type Service struct {
	repo  Repository
	cache ListCache
	sfg   singleflight.Group // Prevents cache stampede on the product list
}

func NewService(repo Repository, cache ListCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// List returns all products, serving from cache when possible. Concurrent
// misses collapse into a single repository read.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(listCacheKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		products, err = s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), products); err != nil {
				log.Printf("cache set error: %v", err)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if err := s.repo.InsertProduct(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Update(ctx context.Context, id string, product *domain.Product) error {
	if err := s.repo.UpdateProduct(ctx, id, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
