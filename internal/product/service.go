package product

import (
	"context"
	"errors"

	"shopmart-be/internal/utils"
)

var ErrInvalidPrice = errors.New("price must be positive")

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, *Pagination, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, *Pagination, error) {
	products, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return products, &Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		input.Stock = 0
	}

	return s.repo.Create(ctx, utils.Slugify(input.Name), input)
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	if input.Price != nil && (input.Price.IsNegative() || input.Price.IsZero()) {
		return nil, ErrInvalidPrice
	}

	return s.repo.Update(ctx, id, input)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
