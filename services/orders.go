package services

import (
	"context"
	"fmt"

	"canteen-api/metrics"
	"canteen-api/models"
	"canteen-api/repository"
	"canteen-api/statemachine"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notifier is the part of notify.Dispatcher the order lifecycle needs.
type Notifier interface {
	OrderPlaced(ctx context.Context, to, name string, orderID uint) error
	OrderReady(ctx context.Context, to, name string, orderID uint) error
}

// CartLine is one line of the client's cart, copied verbatim into order_items.
type CartLine struct {
	ItemName string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Orders drives an order from PENDING through PAID/PLACED to READY.
type Orders struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	notify Notifier
}

func NewOrders(orders repository.OrderRepository, users repository.UserRepository, n Notifier) *Orders {
	return &Orders{orders: orders, users: users, notify: n}
}

// CreateOrder stores a PENDING order and its cart snapshot. The total, prices and
// item membership are taken from the client as-is. The two inserts are not atomic:
// if the lines fail the order row remains and an error is returned.
func (s *Orders) CreateOrder(ctx context.Context, userID, canteenID uint, cart []CartLine, total decimal.Decimal) (uint, error) {
	order := &models.Order{
		UserID:        userID,
		CanteenID:     canteenID,
		TotalAmount:   total,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return 0, err
	}

	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, models.OrderItem{
			OrderID:  order.ID,
			ItemName: line.ItemName,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		return 0, fmt.Errorf("%w: order %d: %v", ErrOrderItems, order.ID, err)
	}

	metrics.OrdersCreated.Inc()
	zerolog.Ctx(ctx).Info().Uint("order_id", order.ID).Uint("canteen_id", canteenID).
		Str("total", total.String()).Int("lines", len(items)).Msg("orders: created pending order")
	return order.ID, nil
}

// ConfirmPayment records the transaction id, marks the order PAID and PLACED, and
// emails the owner. A failed email does not undo the update.
func (s *Orders) ConfirmPayment(ctx context.Context, orderID uint, transactionID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	owner, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("order %d owner: %w", orderID, err)
	}

	if err := s.orders.Update(ctx, orderID, statemachine.PaymentConfirmed(transactionID)); err != nil {
		return err
	}
	metrics.PaymentsConfirmed.Inc()
	zerolog.Ctx(ctx).Info().Uint("order_id", orderID).Str("transaction_id", transactionID).Msg("orders: payment confirmed")

	if err := s.notify.OrderPlaced(ctx, owner.Email, owner.Name, orderID); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// UpdateStatus writes the fulfillment status as given. Entering READY emails the owner.
func (s *Orders) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !statemachine.IsForwardStep(order.Status, status) {
		zerolog.Ctx(ctx).Warn().Uint("order_id", orderID).Interface("from", order.Status).
			Str("to", string(status)).Msg("orders: status change is not a single forward step")
	}

	if err := s.orders.Update(ctx, orderID, map[string]interface{}{"o_status": status}); err != nil {
		return err
	}
	metrics.StatusUpdates.WithLabelValues(string(status)).Inc()

	if !statemachine.Notifies(status) {
		return nil
	}
	owner, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("order %d owner: %w", orderID, err)
	}
	if err := s.notify.OrderReady(ctx, owner.Email, owner.Name, orderID); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// ListForCanteen is the staff view of a canteen's orders, newest first.
func (s *Orders) ListForCanteen(ctx context.Context, canteenID uint) ([]models.OrderSummary, error) {
	return s.orders.ListSummaries(ctx, &canteenID)
}

// ListAll is the admin view across canteens.
func (s *Orders) ListAll(ctx context.Context) ([]models.OrderSummary, error) {
	return s.orders.ListSummaries(ctx, nil)
}
