package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shopmart-be/internal/counter"
	"shopmart-be/internal/logger"
	"shopmart-be/internal/utils"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// orderNumberAttempts bounds the retries on an order-number collision.
// The unique index is the real guarantee; the retry only smooths over
// the astronomically rare clash.
const orderNumberAttempts = 3

type Service interface {
	PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*Order, error)
	GetOrders(ctx context.Context, userID uint, isAdmin bool) ([]*Order, error)
	GetOrder(ctx context.Context, userID uint, isAdmin bool, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, input UpdateStatusInput) (*Order, error)
}

// Counters is the slice of the badge cache checkout needs: committing
// an order empties the cart, so the cached cart count must be dropped.
type Counters interface {
	Invalidate(ctx context.Context, kind string, userID uint)
}

type service struct {
	repo     Repository
	counters Counters
}

func NewService(repo Repository, counters Counters) Service {
	return &service{repo: repo, counters: counters}
}

// PlaceOrder turns the user's current cart into a durable order exactly
// once, consistently with inventory. See CreateOrderTx for the commit
// sequence; everything before it is validation and pricing on the
// snapshot read here.
func (s *service) PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
	)

	if err := validateShippingAddress(input.ShippingAddress); err != nil {
		return nil, err
	}

	paymentMethod := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if paymentMethod != PaymentMethodCOD && paymentMethod != PaymentMethodCard {
		return nil, ErrInvalidPaymentMethod
	}

	// 1. Cart snapshot with live price and stock
	lines, err := s.repo.GetCheckoutLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// 2. Optimistic pre-check; the decrement inside the transaction is
	// the authority, this just fails fast with a named product.
	for _, line := range lines {
		if line.Stock < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
			}
		}
	}

	// 3. Price from the same snapshot the items will record
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	paymentStatus := PaymentPending
	if paymentMethod == PaymentMethodCard {
		paymentStatus = PaymentPaid
	}

	o := &Order{
		UserID:          userID,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          StatusPending,
	}

	// 4-7. Atomic commit, retrying only on an order-number collision
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		o.OrderNumber = utils.GenerateOrderNumber()

		err = s.repo.CreateOrderTx(ctx, o, lines)
		if err == nil {
			break
		}
		if isOrderNumberCollision(err) {
			log.Warn("order number collision, retrying",
				zap.String("order_number", o.OrderNumber),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	// the transaction emptied the cart, so the cached badge count is stale
	if s.counters != nil {
		s.counters.Invalidate(ctx, counter.KindCart, userID)
	}

	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total_amount", total.String()),
	)

	// 8. Return the fully populated order
	return s.repo.GetOrderByID(ctx, o.ID)
}

func (s *service) GetOrders(ctx context.Context, userID uint, isAdmin bool) ([]*Order, error) {
	return s.repo.FetchOrders(ctx, userID, isAdmin)
}

func (s *service) GetOrder(ctx context.Context, userID uint, isAdmin bool, orderID string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, input UpdateStatusInput) (*Order, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, input.Status)
	}

	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(input.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, input.Status)
	}

	var tracking *TrackingEvent
	if input.TrackingMessage != "" {
		tracking = &TrackingEvent{
			OrderID:  orderID,
			Status:   string(input.Status),
			Message:  input.TrackingMessage,
			Location: input.TrackingLocation,
		}
	}

	if err := s.repo.UpdateStatusTx(ctx, o, input.Status, tracking); err != nil {
		return nil, err
	}

	return s.repo.GetOrderByID(ctx, orderID)
}

func validateShippingAddress(raw json.RawMessage) error {
	var addr ShippingAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return fmt.Errorf("%w: malformed payload", ErrInvalidAddress)
	}

	required := []struct {
		field string
		value string
	}{
		{"name", addr.Name},
		{"phone", addr.Phone},
		{"address", addr.Address},
		{"city", addr.City},
		{"state", addr.State},
		{"zipCode", addr.ZipCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAddress, f.field)
		}
	}

	return nil
}

func isOrderNumberCollision(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		pqErr.Code == "23505" &&
		strings.Contains(pqErr.Constraint, "order_number")
}
