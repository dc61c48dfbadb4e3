package cart

import (
	"context"
	"errors"

	"shopmart-be/internal/counter"
	"shopmart-be/internal/product"
)

// ErrInsufficientStock is the advisory cart-time check; the checkout
// transaction re-verifies stock authoritatively.
var ErrInsufficientStock = errors.New("insufficient stock")

type Service interface {
	List(ctx context.Context, userID uint) ([]*CartItem, error)
	Add(ctx context.Context, userID uint, input AddItemInput) (*CartItem, error)
	UpdateQuantity(ctx context.Context, userID uint, itemID string, quantity int) error
	Remove(ctx context.Context, userID uint, itemID string) error
	Clear(ctx context.Context, userID uint) error
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

func (s *service) List(ctx context.Context, userID uint) ([]*CartItem, error) {
	return s.repo.ListItems(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID uint, input AddItemInput) (*CartItem, error) {
	p, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if p.Stock < input.Quantity {
		return nil, ErrInsufficientStock
	}

	existing, err := s.repo.GetByUserAndProduct(ctx, userID, input.ProductID)
	if err != nil {
		return nil, err
	}

	var item *CartItem
	if existing != nil {
		// repeat add merges into the existing line
		merged := existing.Quantity + input.Quantity
		if err := s.repo.UpdateQuantity(ctx, existing.ID, userID, merged); err != nil {
			return nil, err
		}
		existing.Quantity = merged
		item = existing
	} else {
		item, err = s.repo.CreateItem(ctx, userID, input.ProductID, input.Quantity)
		if err != nil {
			return nil, err
		}
	}

	s.counters.Invalidate(ctx, counter.KindCart, userID)
	return item, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID uint, itemID string, quantity int) error {
	if err := s.repo.UpdateQuantity(ctx, itemID, userID, quantity); err != nil {
		return err
	}
	s.counters.Invalidate(ctx, counter.KindCart, userID)
	return nil
}

func (s *service) Remove(ctx context.Context, userID uint, itemID string) error {
	if err := s.repo.RemoveItem(ctx, itemID, userID); err != nil {
		return err
	}
	s.counters.Invalidate(ctx, counter.KindCart, userID)
	return nil
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.counters.Invalidate(ctx, counter.KindCart, userID)
	return nil
}

func (s *service) Count(ctx context.Context, userID uint) (int64, error) {
	return s.counters.Get(ctx, counter.KindCart, userID, func(ctx context.Context) (int64, error) {
		return s.repo.Count(ctx, userID)
	})
}
