package catalog

import (
	"context"
	"errors"
	"sync"
)

// Product is immutable once loaded. Prices are plain currency units (GH₵),
// matching the feed format, not cents.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Stock       int      `json:"stock"`
	Colors      []string `json:"colors"`
	Badges      []string `json:"badges"`
	Image       string   `json:"image"`
}

func (p Product) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

type Testimonial struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Product  string `json:"product,omitempty"`
	Date     string `json:"date"`
	Verified bool   `json:"verified,omitempty"`
	Avatar   string `json:"avatar"`
}

var ErrNotLoaded = errors.New("catalog not loaded")

// Store holds the per-session product and testimonial catalog. Both datasets
// are replaced wholesale by a load; nothing mutates them afterwards.
type Store struct {
	mu           sync.RWMutex
	products     []Product
	testimonials []Testimonial
	loaded       bool
	fallback     bool
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly loaded catalog. fallback records whether the
// data came from the embedded sample set rather than the configured source.
func (s *Store) Replace(products []Product, testimonials []Testimonial, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = products
	s.testimonials = testimonials
	s.loaded = true
	s.fallback = fallback
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

// Products returns a copy of the catalog in feed order.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Product(id int) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *Store) Testimonials() []Testimonial {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Testimonial, len(s.testimonials))
	copy(out, s.testimonials)
	return out
}

func (s *Store) UsingFallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}
