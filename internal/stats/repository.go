package stats

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type RecentOrder struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	UserName    string          `json:"user_name"`
	UserEmail   string          `json:"user_email"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Stats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalOrders   int64           `json:"total_orders"`
	TotalProducts int64           `json:"total_products"`
	TotalUsers    int64           `json:"total_users"`
	RecentOrders  []RecentOrder   `json:"recent_orders"`
}

type Repository interface {
	Dashboard(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Dashboard(ctx context.Context) (*Stats, error) {
	s := &Stats{RecentOrders: []RecentOrder{}}

	// revenue counts paid orders only
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE payment_status = 'PAID'
	`).Scan(&s.TotalRevenue)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&s.TotalOrders); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&s.TotalProducts); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&s.TotalUsers); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.order_number, o.total_amount, o.status,
		       u.name, u.email, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ro RecentOrder
		if err := rows.Scan(
			&ro.ID, &ro.OrderNumber, &ro.TotalAmount, &ro.Status,
			&ro.UserName, &ro.UserEmail, &ro.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.RecentOrders = append(s.RecentOrders, ro)
	}

	return s, rows.Err()
}
