package checkout

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinhngx/backend-foodee/internal/order"
)

// PGStore writes placed orders to Postgres. The order row, its item snapshot
// and the removal of the purchased cart lines commit in one transaction.
type PGStore struct {
	DB *pgxpool.Pool
}

func (s *PGStore) CreateOrder(ctx context.Context, o order.Order) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, address, distance_km, duration_label,
			voucher_code, subtotal, shipping_fee, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.UserID, o.Status, o.Address, o.DistanceKm, nullable(o.DurationLabel),
		o.VoucherCode, o.Subtotal, o.ShippingFee, o.Discount, o.Total)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, qty, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, it.ProductID, it.Name, it.Qty, it.UnitPrice, it.Subtotal)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		_, err = tx.Exec(ctx, `
			DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
			o.UserID, it.ProductID)
		if err != nil {
			return fmt.Errorf("clear cart line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
