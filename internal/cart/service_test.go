package cart

import (
	"context"
	"testing"

	"shopmart-be/internal/counter"
	"shopmart-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListItems(ctx context.Context, userID uint) ([]*CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CartItem), args.Error(1)
}

func (m *MockRepository) GetByUserAndProduct(ctx context.Context, userID uint, productID string) (*CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpdateQuantity(ctx context.Context, itemID string, userID uint, quantity int) error {
	args := m.Called(ctx, itemID, userID, quantity)
	return args.Error(0)
}

func (m *MockRepository) RemoveItem(ctx context.Context, itemID string, userID uint) error {
	args := m.Called(ctx, itemID, userID)
	return args.Error(0)
}

func (m *MockRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) List(ctx context.Context, opts product.ListOptions) ([]*product.Product, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*product.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) Create(ctx context.Context, slug string, input product.CreateProductInput) (*product.Product, error) {
	args := m.Called(ctx, slug, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, id string, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo Repository, products product.Repository) Service {
	return NewService(repo, products, counter.New(nil))
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("NewItem", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepo)
		svc := newTestService(repo, products)

		products.On("GetByID", ctx, "prod-1").
			Return(&product.Product{ID: "prod-1", Stock: 5}, nil)
		repo.On("GetByUserAndProduct", ctx, uint(1), "prod-1").Return(nil, nil)
		repo.On("CreateItem", ctx, uint(1), "prod-1", 2).
			Return(&CartItem{ID: "cart-1", Quantity: 2}, nil)

		item, err := svc.Add(ctx, 1, AddItemInput{ProductID: "prod-1", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "cart-1", item.ID)
	})

	t.Run("RepeatAddMergesQuantity", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepo)
		svc := newTestService(repo, products)

		products.On("GetByID", ctx, "prod-1").
			Return(&product.Product{ID: "prod-1", Stock: 10}, nil)
		repo.On("GetByUserAndProduct", ctx, uint(1), "prod-1").
			Return(&CartItem{ID: "cart-1", Quantity: 2}, nil)
		repo.On("UpdateQuantity", ctx, "cart-1", uint(1), 5).Return(nil)

		item, err := svc.Add(ctx, 1, AddItemInput{ProductID: "prod-1", Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		repo.AssertNotCalled(t, "CreateItem")
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepo)
		svc := newTestService(repo, products)

		products.On("GetByID", ctx, "prod-1").
			Return(&product.Product{ID: "prod-1", Stock: 1}, nil)

		_, err := svc.Add(ctx, 1, AddItemInput{ProductID: "prod-1", Quantity: 2})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		repo.AssertNotCalled(t, "CreateItem")
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepo)
		svc := newTestService(repo, products)

		products.On("GetByID", ctx, "missing").
			Return(nil, product.ErrProductNotFound)

		_, err := svc.Add(ctx, 1, AddItemInput{ProductID: "missing", Quantity: 1})
		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	svc := newTestService(repo, new(MockProductRepo))

	repo.On("UpdateQuantity", ctx, "cart-1", uint(1), 4).Return(nil)
	assert.NoError(t, svc.UpdateQuantity(ctx, 1, "cart-1", 4))

	repo.On("UpdateQuantity", ctx, "missing", uint(1), 4).Return(ErrCartItemNotFound)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, 1, "missing", 4), ErrCartItemNotFound)
}

func TestService_Count(t *testing.T) {
	ctx := context.Background()

	// nil redis client: Count falls through to the repository
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockProductRepo))

	repo.On("Count", ctx, uint(1)).Return(int64(7), nil)

	n, err := svc.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
