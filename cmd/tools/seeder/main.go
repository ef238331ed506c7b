package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinhngx/backend-foodee/internal/config"
	"github.com/vinhngx/backend-foodee/internal/obs"
)

//go:embed schema.sql
var schema string

type seedProduct struct {
	category    string
	name        string
	slug        string
	description string
	price       int64
}

var seedCategories = map[string]string{
	"rice":   "Rice Dishes",
	"noodle": "Noodles",
	"drink":  "Drinks",
	"snack":  "Snacks",
}

var seedProducts = []seedProduct{
	{"rice", "Com Tam Suon Bi", "com-tam-suon-bi", "Broken rice with grilled pork chop.", 43000},
	{"rice", "Com Ga Xoi Mo", "com-ga-xoi-mo", "Crispy fried chicken over rice.", 45000},
	{"noodle", "Pho Bo Tai", "pho-bo-tai", "Beef noodle soup with rare slices.", 50000},
	{"noodle", "Bun Bo Hue", "bun-bo-hue", "Spicy beef and lemongrass noodle soup.", 48000},
	{"noodle", "Mi Quang Tom Thit", "mi-quang-tom-thit", "Turmeric noodles with shrimp and pork.", 46000},
	{"drink", "Tra Dao Cam Sa", "tra-dao-cam-sa", "Peach tea with orange and lemongrass.", 30000},
	{"drink", "Ca Phe Sua Da", "ca-phe-sua-da", "Vietnamese iced milk coffee.", 25000},
	{"snack", "Goi Cuon", "goi-cuon", "Fresh spring rolls, two pieces.", 28000},
}

func main() {
	withDemo := flag.Bool("demo", true, "insert demo accounts, menu and vouchers")
	flag.Parse()

	cfg := config.MustLoad()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Fatal().Err(err).Msg("apply schema")
	}
	logger.Info().Msg("schema applied")

	if !*withDemo {
		return
	}
	if err := seed(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("seed demo data")
	}
	logger.Info().Msg("demo data seeded")
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	adminHash, err := argon2id.CreateHash("admin-password", argon2id.DefaultParams)
	if err != nil {
		return err
	}
	customerHash, err := argon2id.CreateHash("customer-password", argon2id.DefaultParams)
	if err != nil {
		return err
	}
	users := [][4]string{
		{uuid.NewString(), "admin@foodee.local", "Foodee Admin", "admin"},
		{uuid.NewString(), "demo@foodee.local", "Demo Customer", "customer"},
	}
	hashes := []string{adminHash, customerHash}
	for i, u := range users {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, name, password_hash, role)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING`, u[0], u[1], u[2], hashes[i], u[3])
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u[1], err)
		}
	}

	categoryIDs := make(map[string]string, len(seedCategories))
	for slug, name := range seedCategories {
		id := uuid.NewString()
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, id, name, slug).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", slug, err)
		}
		categoryIDs[slug] = id
	}

	for _, p := range seedProducts {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (id, category_id, name, slug, description, price)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO NOTHING`,
			uuid.NewString(), categoryIDs[p.category], p.name, p.slug, p.description, p.price)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.slug, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vouchers (id, code, kind, value, max_discount, min_order_value)
		VALUES
			($1, 'SAVE10', 'percentage', 10, 15000, 0),
			($2, 'FREESHIP25', 'fixed', 25000, NULL, 100000)
		ON CONFLICT (code) DO NOTHING`, uuid.NewString(), uuid.NewString())
	if err != nil {
		return fmt.Errorf("seed vouchers: %w", err)
	}

	return tx.Commit(ctx)
}
