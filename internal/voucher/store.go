package voucher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists vouchers in Postgres.
type Store struct {
	DB *pgxpool.Pool
}

// Input captures the admin payload for creating or updating a voucher.
type Input struct {
	Code          string     `json:"code" validate:"required,min=3,max=32"`
	Kind          string     `json:"kind" validate:"required,oneof=percentage fixed"`
	Value         int64      `json:"value" validate:"required,gt=0"`
	MaxDiscount   *int64     `json:"maxDiscount" validate:"omitempty,gte=0"`
	MinOrderValue int64      `json:"minOrderValue" validate:"gte=0"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// FindByCode looks up a voucher by its (case-insensitive) code.
func (s Store) FindByCode(ctx context.Context, code string) (Voucher, error) {
	var v Voucher
	err := s.DB.QueryRow(ctx, `
		SELECT id, code, kind, value, max_discount, min_order_value, expires_at, created_at
		FROM vouchers WHERE code = $1`, NormalizeCode(code)).
		Scan(&v.ID, &v.Code, &v.Kind, &v.Value, &v.MaxDiscount, &v.MinOrderValue, &v.ExpiresAt, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Voucher{}, ErrNotFound
	}
	if err != nil {
		return Voucher{}, fmt.Errorf("find voucher: %w", err)
	}
	return v, nil
}

// Create inserts a new voucher.
func (s Store) Create(ctx context.Context, in Input) (Voucher, error) {
	v := Voucher{
		ID:            uuid.NewString(),
		Code:          NormalizeCode(in.Code),
		Kind:          in.Kind,
		Value:         in.Value,
		MaxDiscount:   in.MaxDiscount,
		MinOrderValue: in.MinOrderValue,
		ExpiresAt:     in.ExpiresAt,
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO vouchers (id, code, kind, value, max_discount, min_order_value, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		v.ID, v.Code, v.Kind, v.Value, v.MaxDiscount, v.MinOrderValue, v.ExpiresAt).
		Scan(&v.CreatedAt)
	if isUniqueViolation(err) {
		return Voucher{}, ErrCodeTaken
	}
	if err != nil {
		return Voucher{}, fmt.Errorf("create voucher: %w", err)
	}
	return v, nil
}

// Update replaces the rule fields of an existing voucher identified by code.
func (s Store) Update(ctx context.Context, code string, in Input) (Voucher, error) {
	var v Voucher
	err := s.DB.QueryRow(ctx, `
		UPDATE vouchers
		SET kind = $2, value = $3, max_discount = $4, min_order_value = $5, expires_at = $6
		WHERE code = $1
		RETURNING id, code, kind, value, max_discount, min_order_value, expires_at, created_at`,
		NormalizeCode(code), in.Kind, in.Value, in.MaxDiscount, in.MinOrderValue, in.ExpiresAt).
		Scan(&v.ID, &v.Code, &v.Kind, &v.Value, &v.MaxDiscount, &v.MinOrderValue, &v.ExpiresAt, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Voucher{}, ErrNotFound
	}
	if err != nil {
		return Voucher{}, fmt.Errorf("update voucher: %w", err)
	}
	return v, nil
}

// Delete removes a voucher by code.
func (s Store) Delete(ctx context.Context, code string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM vouchers WHERE code = $1`, NormalizeCode(code))
	if err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns vouchers ordered by creation time, newest first.
func (s Store) List(ctx context.Context, limit, offset int) ([]Voucher, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, code, kind, value, max_discount, min_order_value, expires_at, created_at
		FROM vouchers ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var out []Voucher
	for rows.Next() {
		var v Voucher
		if err := rows.Scan(&v.ID, &v.Code, &v.Kind, &v.Value, &v.MaxDiscount, &v.MinOrderValue, &v.ExpiresAt, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
