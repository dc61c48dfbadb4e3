package wishlist

import (
	"context"
	"database/sql"
	"errors"

	"shopmart-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrItemNotFound      = errors.New("wishlist item not found")
	ErrAlreadyInWishlist = errors.New("already in wishlist")
)

type Repository interface {
	List(ctx context.Context, userID uint) ([]*WishlistItem, error)
	Add(ctx context.Context, userID uint, productID string) (*WishlistItem, error)
	Remove(ctx context.Context, itemID string, userID uint) error
	Count(ctx context.Context, userID uint) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID uint) ([]*WishlistItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Uint("user_id", userID),
	)

	query := `
		SELECT
			wi.id, wi.user_id, wi.product_id, wi.created_at,
			p.id, p.name, p.slug, p.price, p.stock
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.user_id = $1
		ORDER BY wi.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*WishlistItem
	for rows.Next() {
		item := &WishlistItem{Product: &ProductSnapshot{}}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Slug,
			&item.Product.Price, &item.Product.Stock,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) Add(ctx context.Context, userID uint, productID string) (*WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		RETURNING id, user_id, product_id, created_at
	`

	var item WishlistItem
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyInWishlist
		}
		return nil, err
	}

	return &item, nil
}

func (r *repository) Remove(ctx context.Context, itemID string, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlist_items
		WHERE id = $1 AND user_id = $2
	`, itemID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`, userID,
	).Scan(&n)
	return n, err
}
