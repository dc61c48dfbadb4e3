package stats

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

func TestRepository_Dashboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\)\s+FROM orders\s+WHERE payment_status = 'PAID'`).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("150.00"))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(34))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		mock.ExpectQuery(`SELECT o.id, o.order_number, o.total_amount, o.status`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_number", "total_amount", "status", "name", "email", "created_at",
			}).AddRow("order-1", "ORD-1", "50.00", "PENDING", "Budi", "budi@example.com", time.Now()))

		s, err := repo.Dashboard(ctx)
		require.NoError(t, err)
		assert.True(t, s.TotalRevenue.Equal(decimal.RequireFromString("150.00")))
		assert.Equal(t, int64(12), s.TotalOrders)
		assert.Equal(t, int64(34), s.TotalProducts)
		assert.Equal(t, int64(7), s.TotalUsers)
		require.Len(t, s.RecentOrders, 1)
		assert.Equal(t, "budi@example.com", s.RecentOrders[0].UserEmail)
	})

	t.Run("NoRecentOrdersIsEmptySlice", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\)`).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT o.id, o.order_number`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_number", "total_amount", "status", "name", "email", "created_at",
			}))

		s, err := repo.Dashboard(ctx)
		require.NoError(t, err)
		assert.NotNil(t, s.RecentOrders)
		assert.Empty(t, s.RecentOrders)
	})

	t.Run("RevenueQueryError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\)`).
			WillReturnError(errors.New("db error"))

		_, err := repo.Dashboard(ctx)
		assert.Error(t, err)
	})
}
