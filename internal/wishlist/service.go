package wishlist

import (
	"context"

	"shopmart-be/internal/counter"
	"shopmart-be/internal/product"
)

type Service interface {
	List(ctx context.Context, userID uint) ([]*WishlistItem, error)
	Add(ctx context.Context, userID uint, productID string) (*WishlistItem, error)
	Remove(ctx context.Context, userID uint, itemID string) error
	Count(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo     Repository
	products product.Repository
	counters *counter.Cache
}

func NewService(repo Repository, products product.Repository, counters *counter.Cache) Service {
	return &service{repo: repo, products: products, counters: counters}
}

func (s *service) List(ctx context.Context, userID uint) ([]*WishlistItem, error) {
	return s.repo.List(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID uint, productID string) (*WishlistItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	item, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	s.counters.Invalidate(ctx, counter.KindWishlist, userID)
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID uint, itemID string) error {
	if err := s.repo.Remove(ctx, itemID, userID); err != nil {
		return err
	}
	s.counters.Invalidate(ctx, counter.KindWishlist, userID)
	return nil
}

func (s *service) Count(ctx context.Context, userID uint) (int64, error) {
	return s.counters.Get(ctx, counter.KindWishlist, userID, func(ctx context.Context) (int64, error) {
		return s.repo.Count(ctx, userID)
	})
}
