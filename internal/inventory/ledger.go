// Package inventory holds the stock mutation primitives. Both operations
// run against a caller-supplied executor so they can join the order
// transaction or run standalone.
package inventory

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Ledger struct{}

func NewLedger() Ledger {
	return Ledger{}
}

// DecrementIfAvailable subtracts qty from the product's stock only when
// the current stock still covers it; the condition and the write are a
// single statement, so concurrent callers cannot drive stock negative.
// Returns false when stock was insufficient (or the product is gone).
func (Ledger) DecrementIfAvailable(ctx context.Context, exec Execer, productID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("invalid decrement quantity: %d", qty)
	}

	res, err := exec.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, productID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

// Restore adds qty back to the product's stock. Compensating operation,
// used when committed quantities must be returned (order cancellation).
func (Ledger) Restore(ctx context.Context, exec Execer, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("invalid restore quantity: %d", qty)
	}

	res, err := exec.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("restore stock: product %s not found", productID)
	}

	return nil
}
