package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Source produces a full catalog. Load is all-or-nothing: a partial result is
// never returned.
type Source interface {
	Load(ctx context.Context) ([]Product, []Testimonial, error)
}

var (
	ErrSourceBadStatus = errors.New("catalog source bad status")
	ErrSourceEmpty     = errors.New("catalog source empty")
)

// HTTPSource fetches the two feed documents. Each is a single JSON object
// whose designated field holds the record array.
type HTTPSource struct {
	ProductsURL     string
	TestimonialsURL string
	Client          *http.Client
}

func NewHTTPSource(productsURL, testimonialsURL string) *HTTPSource {
	return &HTTPSource{
		ProductsURL:     strings.TrimSpace(productsURL),
		TestimonialsURL: strings.TrimSpace(testimonialsURL),
		Client:          &http.Client{Timeout: 5 * time.Second},
	}
}

type productsDoc struct {
	Products []Product `json:"products"`
}

type testimonialsDoc struct {
	Testimonials []Testimonial `json:"testimonials"`
}

func (s *HTTPSource) Load(ctx context.Context) ([]Product, []Testimonial, error) {
	var pdoc productsDoc
	if err := s.fetch(ctx, s.ProductsURL, &pdoc); err != nil {
		return nil, nil, fmt.Errorf("products: %w", err)
	}
	if len(pdoc.Products) == 0 {
		return nil, nil, fmt.Errorf("products: %w", ErrSourceEmpty)
	}

	var tdoc testimonialsDoc
	if err := s.fetch(ctx, s.TestimonialsURL, &tdoc); err != nil {
		return nil, nil, fmt.Errorf("testimonials: %w", err)
	}

	return pdoc.Products, tdoc.Testimonials, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrSourceBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// LoadInto runs src once and fills store. Any failure substitutes the
// embedded sample data for both datasets together; load failure is recovered,
// never surfaced, and never retried.
func LoadInto(ctx context.Context, src Source, store *Store, log *zap.Logger) {
	if src == nil {
		if log != nil {
			log.Info("no catalog source configured, serving fallback data")
		}
		store.Replace(FallbackProducts(), FallbackTestimonials(), true)
		return
	}

	products, testimonials, err := src.Load(ctx)
	if err != nil {
		if log != nil {
			log.Warn("catalog load failed, serving fallback data", zap.Error(err))
		}
		store.Replace(FallbackProducts(), FallbackTestimonials(), true)
		return
	}

	store.Replace(products, testimonials, false)
	if log != nil {
		log.Info("catalog loaded",
			zap.Int("products", len(products)),
			zap.Int("testimonials", len(testimonials)),
		)
	}
}
