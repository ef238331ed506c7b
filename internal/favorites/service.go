package favorites

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Product is a favorited product with its current listing data.
type Product struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}

// Service manages the user's favorite products.
type Service struct {
	DB *pgxpool.Pool
}

// List returns the user's favorites, most recently added first.
func (s *Service) List(ctx context.Context, userID string) ([]Product, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT f.product_id, p.name, p.slug, COALESCE(p.image_url, ''), p.price, p.available
		FROM favorites f
		JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY f.added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Slug, &p.ImageURL, &p.Price, &p.Available); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Toggle flips the favorite state of a product and reports the new state.
func (s *Service) Toggle(ctx context.Context, userID, productID string) (favorited bool, err error) {
	tag, err := s.DB.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("unfavorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("favorite: %w", err)
	}
	return true, nil
}

// IDs returns the set of favorited product ids for badge rendering.
func (s *Service) IDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.DB.Query(ctx, `SELECT product_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
