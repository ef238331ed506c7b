package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested catalog entity does not exist.
var ErrNotFound = errors.New("catalog: not found")

const (
	categoriesCacheKey = "catalog:categories"
	productsCachePfx   = "catalog:products:"
	productsVerKey     = "catalog:products:ver"
)

// Category groups products on the storefront.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is one menu entry.
type Product struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	CategoryID  string `json:"categoryId" validate:"required"`
	Name        string `json:"name" validate:"required,min=2,max=160"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Available   *bool  `json:"available"`
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query    string
	Category string
	Page     int
	PerPage  int
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	DB    *pgxpool.Pool
	Cache *Cache
}

// Categories lists all categories, served from cache when possible.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	var cached []Category
	if ok, _ := s.Cache.GetJSON(ctx, categoriesCacheKey, &cached); ok {
		return cached, nil
	}
	rows, err := s.DB.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = s.Cache.SetJSON(ctx, categoriesCacheKey, out)
	return out, nil
}

// Products lists products with optional search and category filter.
func (s *Service) Products(ctx context.Context, p ListParams) ([]Product, int64, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	// per-page keys carry the listing generation so product CRUD can drop
	// them all with one version bump instead of enumerating keys
	ver := s.Cache.Version(ctx, productsVerKey)
	cacheKey := fmt.Sprintf("%sv=%s:q=%s:c=%s:p=%d:l=%d", productsCachePfx, ver, strings.ToLower(p.Query), p.Category, p.Page, p.PerPage)

	var cached struct {
		Items []Product `json:"items"`
		Total int64     `json:"total"`
	}
	if ok, _ := s.Cache.GetJSON(ctx, cacheKey, &cached); ok {
		return cached.Items, cached.Total, nil
	}

	where := `WHERE TRUE`
	args := []any{}
	n := 1
	if q := strings.TrimSpace(p.Query); q != "" {
		where += fmt.Sprintf(" AND p.name ILIKE $%d", n)
		args = append(args, "%"+q+"%")
		n++
	}
	if p.Category != "" {
		where += fmt.Sprintf(" AND c.slug = $%d", n)
		args = append(args, p.Category)
		n++
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id ` + where
	if err := s.DB.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	listSQL := fmt.Sprintf(`
		SELECT p.id, p.category_id, p.name, p.slug, COALESCE(p.description, ''), p.price,
		       COALESCE(p.image_url, ''), p.available, p.created_at
		FROM products p JOIN categories c ON c.id = p.category_id
		%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, where, n, n+1)
	args = append(args, p.PerPage, (p.Page-1)*p.PerPage)

	rows, err := s.DB.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []Product{}
	for rows.Next() {
		var pr Product
		if err := rows.Scan(&pr.ID, &pr.CategoryID, &pr.Name, &pr.Slug, &pr.Description, &pr.Price, &pr.ImageURL, &pr.Available, &pr.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	cached.Items = items
	cached.Total = total
	_ = s.Cache.SetJSON(ctx, cacheKey, cached)
	return items, total, nil
}

// ProductBySlug returns a single product.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (Product, error) {
	var pr Product
	err := s.DB.QueryRow(ctx, `
		SELECT id, category_id, name, slug, COALESCE(description, ''), price,
		       COALESCE(image_url, ''), available, created_at
		FROM products WHERE slug = $1`, slug).
		Scan(&pr.ID, &pr.CategoryID, &pr.Name, &pr.Slug, &pr.Description, &pr.Price, &pr.ImageURL, &pr.Available, &pr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return pr, nil
}

// CreateProduct inserts a product and invalidates listing caches.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	pr := Product{
		ID:          uuid.NewString(),
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Slug:        slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Available:   available,
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO products (id, category_id, name, slug, description, price, image_url, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		pr.ID, pr.CategoryID, pr.Name, pr.Slug, nullable(pr.Description), pr.Price, nullable(pr.ImageURL), pr.Available).
		Scan(&pr.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.Cache.Bump(ctx, productsVerKey)
	return pr, nil
}

// UpdateProduct replaces mutable product fields.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	var pr Product
	err := s.DB.QueryRow(ctx, `
		UPDATE products
		SET category_id = $2, name = $3, description = $4, price = $5, image_url = $6,
		    available = $7
		WHERE id = $1
		RETURNING id, category_id, name, slug, COALESCE(description, ''), price,
		          COALESCE(image_url, ''), available, created_at`,
		id, in.CategoryID, in.Name, nullable(in.Description), in.Price, nullable(in.ImageURL), available).
		Scan(&pr.ID, &pr.CategoryID, &pr.Name, &pr.Slug, &pr.Description, &pr.Price, &pr.ImageURL, &pr.Available, &pr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	s.Cache.Bump(ctx, productsVerKey)
	return pr, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.Cache.Bump(ctx, productsVerKey)
	return nil
}

// CreateCategory inserts a category.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: name, Slug: slugify(name)}
	if _, err := s.DB.Exec(ctx, `
		INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`, c.ID, c.Name, c.Slug); err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	s.Cache.Invalidate(ctx, categoriesCacheKey)
	return c, nil
}

func nullable(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func slugify(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
