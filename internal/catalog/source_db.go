package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const queryTimeout = 3 * time.Second

// PostgresSource loads the catalog from a database instead of the JSON feeds.
// Colors and badges live in jsonb columns.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Load(ctx context.Context) ([]Product, []Testimonial, error) {
	var (
		products     []Product
		testimonials []Testimonial
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		if products, err = s.loadProducts(ctx); err != nil {
			return err
		}
		testimonials, err = s.loadTestimonials(ctx)
		return err
	})

	if err != nil {
		return nil, nil, err
	}
	return products, testimonials, nil
}

func (s *PostgresSource) loadProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, category, size, description,
		       rating, reviews, stock, colors, badges, image
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, 16)
	for rows.Next() {
		var (
			p              Product
			colors, badges []byte
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.Category, &p.Size, &p.Description,
			&p.Rating, &p.Reviews, &p.Stock, &colors, &badges, &p.Image,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(colors, &p.Colors); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(badges, &p.Badges); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresSource) loadTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location, rating, text, COALESCE(product, ''),
		       date, verified, avatar
		FROM testimonials
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Testimonial, 0, 8)
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Location, &t.Rating, &t.Text, &t.Product,
			&t.Date, &t.Verified, &t.Avatar,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
