package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "name", "slug", "description", "price", "stock",
	"category_id", "category_name", "images", "created_at", "updated_at",
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("DefaultPagination", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p WHERE 1=1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(productCols).
			AddRow("prod-1", "Widget", "widget", nil, "10.00", 5, nil, nil, []byte(`["a.jpg"]`), time.Now(), time.Now()).
			AddRow("prod-2", "Gadget", "gadget", nil, "20.00", 2, nil, nil, nil, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT .* FROM products p\s+LEFT JOIN categories c`).
			WithArgs(20, 0).
			WillReturnRows(rows)

		products, total, err := repo.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, products, 2)
		assert.Equal(t, []string{"a.jpg"}, products[0].Images)
		// nil JSONB comes back as an empty slice, not nil
		assert.NotNil(t, products[1].Images)
		assert.Empty(t, products[1].Images)
	})

	t.Run("CategoryAndSearchFilters", func(t *testing.T) {
		cat := "cat-1"
		search := "wid"

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p`).
			WithArgs(cat, "%wid%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT .* FROM products p`).
			WithArgs(cat, "%wid%", 10, 10).
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow("prod-1", "Widget", "widget", nil, "10.00", 5, cat, "Tools", []byte(`[]`), time.Now(), time.Now()))

		products, total, err := repo.List(ctx, ListOptions{
			CategoryID: &cat,
			Search:     &search,
			Page:       2,
			Limit:      10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, products, 1)
		require.NotNil(t, products[0].CategoryName)
		assert.Equal(t, "Tools", *products[0].CategoryName)
	})

	t.Run("LimitCapped", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT .* FROM products p`).
			WithArgs(100, 0).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, _, err := repo.List(ctx, ListOptions{Limit: 1000})
		assert.NoError(t, err)
	})

	t.Run("CountError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnError(errors.New("db error"))

		_, _, err := repo.List(ctx, ListOptions{})
		assert.Error(t, err)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products p`).
			WithArgs("prod-1").
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow("prod-1", "Widget", "widget", nil, "10.00", 5, nil, nil, []byte(`[]`), time.Now(), time.Now()))

		p, err := repo.GetByID(ctx, "prod-1")
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products p`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	input := CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("10.00"),
		Stock: 5,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs("Widget", "widget", nil, input.Price, 5, nil, []byte(`[]`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("prod-1"))

		mock.ExpectQuery(`SELECT .* FROM products p`).
			WithArgs("prod-1").
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow("prod-1", "Widget", "widget", nil, "10.00", 5, nil, nil, []byte(`[]`), time.Now(), time.Now()))

		p, err := repo.Create(ctx, "widget", input)
		require.NoError(t, err)
		assert.Equal(t, "prod-1", p.ID)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO products`).
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(ctx, "widget", input)
		assert.Error(t, err)
	})
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("PartialUpdate", func(t *testing.T) {
		newStock := 10

		mock.ExpectExec(`UPDATE products SET updated_at = NOW\(\), stock = \$1 WHERE id = \$2`).
			WithArgs(10, "prod-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT .* FROM products p`).
			WithArgs("prod-1").
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow("prod-1", "Widget", "widget", nil, "10.00", 10, nil, nil, []byte(`[]`), time.Now(), time.Now()))

		p, err := repo.Update(ctx, "prod-1", UpdateProductInput{Stock: &newStock})
		require.NoError(t, err)
		assert.Equal(t, 10, p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		name := "New Name"

		mock.ExpectExec(`UPDATE products SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Update(ctx, "missing", UpdateProductInput{Name: &name})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs("prod-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "prod-1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrProductNotFound)
	})
}
