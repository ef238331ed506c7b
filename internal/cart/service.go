package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinhngx/backend-foodee/internal/pricing"
)

// ErrNotFound indicates the referenced cart line does not exist.
var ErrNotFound = errors.New("cart line not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrProductUnavailable indicates the product cannot be added to the cart.
var ErrProductUnavailable = errors.New("product unavailable")

// Line is one cart entry joined with its current product data.
type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl,omitempty"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	Selected  bool   `json:"selected"`
	Available bool   `json:"available"`
}

// Service owns the server-side cart document keyed by user. Mutations are
// last-write-wins: a single user per cart makes optimistic locking pointless.
type Service struct {
	DB *pgxpool.Pool
}

// List returns the user's cart lines with current product data.
func (s *Service) List(ctx context.Context, userID string) ([]Line, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT ci.product_id, p.name, COALESCE(p.image_url, ''), p.price, ci.qty, ci.selected, p.available
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.ProductID, &ln.Name, &ln.ImageURL, &ln.UnitPrice, &ln.Qty, &ln.Selected, &ln.Available); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

// AddItem inserts a line or increments the quantity of an existing one.
func (s *Service) AddItem(ctx context.Context, userID, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	var available bool
	err := s.DB.QueryRow(ctx, `SELECT available FROM products WHERE id = $1`, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductUnavailable
	}
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !available {
		return ErrProductUnavailable
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, qty, selected)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id, product_id) DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty`,
		userID, productID, qty)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// SetQty replaces the quantity of a line. Zero removes the line.
func (s *Service) SetQty(ctx context.Context, userID, productID string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("qty must not be negative: %w", ErrInvalidInput)
	}
	if qty == 0 {
		return s.Remove(ctx, userID, productID)
	}
	tag, err := s.DB.Exec(ctx, `
		UPDATE cart_items SET qty = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, qty)
	if err != nil {
		return fmt.Errorf("set qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSelected toggles whether a line participates in checkout.
func (s *Service) SetSelected(ctx context.Context, userID, productID string, selected bool) error {
	tag, err := s.DB.Exec(ctx, `
		UPDATE cart_items SET selected = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, selected)
	if err != nil {
		return fmt.Errorf("set selected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes a line from the cart.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	tag, err := s.DB.Exec(ctx, `
		DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// PricingLines converts cart lines for the pricing engine.
func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, ln := range lines {
		out = append(out, pricing.Line{
			ProductID: ln.ProductID,
			UnitPrice: ln.UnitPrice,
			Qty:       ln.Qty,
			Selected:  ln.Selected,
		})
	}
	return out
}
