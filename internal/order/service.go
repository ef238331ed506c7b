package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinhngx/backend-foodee/internal/events"
)

// ErrNotFound indicates the requested order does not exist for the caller.
var ErrNotFound = errors.New("order not found")

// Item is one snapshotted line of a placed order.
type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

// Order is a placed order with its pricing snapshot.
type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Status        Status    `json:"status"`
	Address       string    `json:"address"`
	DistanceKm    float64   `json:"distanceKm"`
	DurationLabel string    `json:"durationLabel,omitempty"`
	VoucherCode   *string   `json:"voucherCode,omitempty"`
	Subtotal      int64     `json:"subtotal"`
	ShippingFee   int64     `json:"shippingFee"`
	Discount      int64     `json:"discountAmount"`
	Total         int64     `json:"finalAmount"`
	Items         []Item    `json:"items,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Service reads and advances placed orders.
type Service struct {
	DB     *pgxpool.Pool
	Events *events.Bus
}

const orderColumns = `id, user_id, status, address, distance_km, COALESCE(duration_label, ''),
	voucher_code, subtotal, shipping_fee, discount, total, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Address, &o.DistanceKm, &o.DurationLabel,
		&o.VoucherCode, &o.Subtotal, &o.ShippingFee, &o.Discount, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListByStatus returns orders in the given status for the back office.
func (s *Service) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Get returns one order with its items. When userID is non-empty the order
// must belong to that user.
func (s *Service) Get(ctx context.Context, orderID, userID string) (Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return Order{}, err
	}
	if userID != "" && o.UserID != userID {
		return Order{}, ErrNotFound
	}

	rows, err := s.DB.Query(ctx, `
		SELECT product_id, name, qty, unit_price, subtotal
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Qty, &it.UnitPrice, &it.Subtotal); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// Transition moves the order to the next status if the workflow allows it and
// emits the matching domain event.
func (s *Service) Transition(ctx context.Context, orderID string, next Status) (Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return Order{}, err
	}
	if o.Status == next {
		return o, nil
	}
	if !CanTransition(o.Status, next) {
		return Order{}, fmt.Errorf("%s -> %s: %w", o.Status, next, ErrInvalidTransition)
	}
	err = s.DB.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
		RETURNING updated_at`, orderID, next).Scan(&o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	o.Status = next

	if s.Events != nil {
		if topic, ok := statusTopic(next); ok {
			_, _ = s.Events.Emit(ctx, topic, o.ID, map[string]any{
				"orderId": o.ID,
				"userId":  o.UserID,
				"status":  string(next),
			})
		}
	}
	return o, nil
}

// Cancel cancels the order on behalf of its owner while the workflow allows it.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) (Order, error) {
	o, err := s.Get(ctx, orderID, userID)
	if err != nil {
		return Order{}, err
	}
	if !Cancelable(o.Status) {
		return Order{}, fmt.Errorf("%s: %w", o.Status, ErrInvalidTransition)
	}
	return s.Transition(ctx, o.ID, StatusCanceled)
}

func statusTopic(s Status) (string, bool) {
	switch s {
	case StatusConfirmed:
		return events.TopicOrderConfirmed, true
	case StatusPreparing:
		return events.TopicOrderPreparing, true
	case StatusDelivering:
		return events.TopicOrderDelivering, true
	case StatusDelivered:
		return events.TopicOrderDelivered, true
	case StatusCanceled:
		return events.TopicOrderCanceled, true
	default:
		return "", false
	}
}
