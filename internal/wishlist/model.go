package wishlist

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type WishlistItem struct {
	ID        string           `json:"id"`
	UserID    uint             `json:"user_id"`
	ProductID string           `json:"product_id"`
	Product   *ProductSnapshot `json:"product,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
}
