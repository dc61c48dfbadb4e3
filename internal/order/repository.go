package order

import (
	"context"
	"database/sql"
	"errors"

	"shopmart-be/internal/inventory"
	"shopmart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// GetCheckoutLines returns the user's cart joined with the live
	// product snapshot (price and stock at read time).
	GetCheckoutLines(ctx context.Context, userID uint) ([]CheckoutLine, error)

	// CreateOrderTx runs the whole commit sequence in one transaction:
	// order row, line items with snapshot prices, initial tracking
	// entry, conditional stock decrement per line, cart clearing.
	// Any failure rolls the whole sequence back.
	CreateOrderTx(ctx context.Context, o *Order, lines []CheckoutLine) error

	FetchOrders(ctx context.Context, userID uint, all bool) ([]*Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)

	// UpdateStatusTx flips the order status guarded by the expected
	// current status, optionally appends a tracking event, and restores
	// stock when the transition is a cancellation.
	UpdateStatusTx(ctx context.Context, o *Order, newStatus OrderStatus, tracking *TrackingEvent) error
}

type repository struct {
	db     *sql.DB
	ledger inventory.Ledger
}

func NewRepository(db *sql.DB, ledger inventory.Ledger) Repository {
	return &repository{db: db, ledger: ledger}
}

func (r *repository) GetCheckoutLines(ctx context.Context, userID uint) ([]CheckoutLine, error) {
	query := `
		SELECT ci.product_id, p.name, ci.quantity, p.price, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []CheckoutLine
	for rows.Next() {
		var line CheckoutLine
		if err := rows.Scan(
			&line.ProductID, &line.ProductName, &line.Quantity,
			&line.Price, &line.Stock,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, lines []CheckoutLine) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_number", o.OrderNumber),
		zap.Uint("user_id", o.UserID),
		zap.Int("line_count", len(lines)),
	)

	log.Debug("starting order transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// 1. Insert order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, total_amount, shipping_address,
			payment_method, payment_status, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber,
		o.UserID,
		o.TotalAmount,
		[]byte(o.ShippingAddress),
		o.PaymentMethod,
		o.PaymentStatus,
		o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// 2. Insert order items + conditionally deduct stock
	for _, line := range lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4)
		`, o.ID, line.ProductID, line.Quantity, line.Price)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", line.ProductID),
				zap.Error(err),
			)
			return err
		}

		// Re-checked at write time: a concurrent order may have taken
		// the stock since the pre-check read.
		ok, err := r.ledger.DecrementIfAvailable(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			log.Error("stock decrement failed",
				zap.String("product_id", line.ProductID),
				zap.Error(err),
			)
			return err
		}
		if !ok {
			log.Warn("stock no longer sufficient",
				zap.String("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
			)
			return &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
			}
		}
	}

	// 3. Initial tracking entry
	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_tracking (order_id, status, message, location)
		VALUES ($1,$2,$3,$4)
	`, o.ID, trackingInitialStatus, trackingInitialMessage, trackingInitialLocation)
	if err != nil {
		log.Error("failed to insert tracking entry", zap.Error(err))
		return err
	}

	// 4. Clear the cart
	_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID)
	if err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order transaction committed",
		zap.String("order_id", o.ID),
	)

	return nil
}

const orderColumns = `
	id, order_number, user_id, total_amount, shipping_address,
	payment_method, payment_status, status, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var addr []byte
	err := scanner.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &addr,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ShippingAddress = addr
	return &o, nil
}

func (r *repository) FetchOrders(ctx context.Context, userID uint, all bool) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FetchOrders"),
		zap.Uint("user_id", userID),
		zap.Bool("all", all),
	)

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if !all {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) GetOrderByID(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	// Line items with the snapshot price
	itemRows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item OrderItem
		if err := itemRows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	// Tracking history in creation order
	trackRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, message, location, created_at
		FROM order_tracking
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer trackRows.Close()

	for trackRows.Next() {
		var t TrackingEvent
		if err := trackRows.Scan(
			&t.ID, &t.OrderID, &t.Status, &t.Message, &t.Location, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		o.Tracking = append(o.Tracking, t)
	}
	if err := trackRows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) UpdateStatusTx(ctx context.Context, o *Order, newStatus OrderStatus, tracking *TrackingEvent) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatusTx"),
		zap.String("order_id", o.ID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(newStatus)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Guard on the status the caller validated against, so two admins
	// racing the same order cannot both apply a transition.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, newStatus, o.ID, o.Status)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrInvalidTransition
	}

	if tracking != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_tracking (order_id, status, message, location)
			VALUES ($1,$2,$3,$4)
		`, o.ID, tracking.Status, tracking.Message, tracking.Location)
		if err != nil {
			return err
		}
	}

	// Cancellation returns the committed quantities to inventory.
	if newStatus == StatusCancelled {
		for _, item := range o.Items {
			if err := r.ledger.Restore(ctx, tx, item.ProductID, item.Quantity); err != nil {
				log.Error("failed to restore stock",
					zap.String("product_id", item.ProductID),
					zap.Error(err),
				)
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("order status updated")
	return nil
}
