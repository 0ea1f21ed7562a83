package catalog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CarpetStore/pkg/kit"
)

type Server struct {
	Store *Store
	View  *ViewState
	Log   *zap.Logger
}

type listResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Filter   string    `json:"filter"`
	Sort     string    `json:"sort"`
	Fallback bool      `json:"fallback,omitempty"`
}

type viewResponse struct {
	Filter string `json:"filter"`
	Sort   string `json:"sort"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/testimonials", s.testimonials)
	r.Get("/categories", s.categories)
	r.Get("/view", s.view)
	r.Post("/view/reset", s.viewReset)

	return r
}

// list answers the filtered/sorted/searched product view. Explicit filter and
// sort params update the session view state; absent params reuse it. The
// search term is per-request only.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, mode := s.View.Update(q.Get("filter"), q.Get("sort"))

	products := FilterProducts(s.Store.Products(), filter)
	products = SearchProducts(products, q.Get("q"))
	products = SortProducts(products, mode)

	kit.WriteJSON(w, http.StatusOK, listResponse{
		Products: products,
		Count:    len(products),
		Filter:   filter,
		Sort:     mode,
		Fallback: s.Store.UsingFallback(),
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return
	}

	p, ok := s.Store.Product(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) testimonials(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"testimonials": s.Store.Testimonials(),
	})
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"categories": Categories(),
	})
}

func (s *Server) view(w http.ResponseWriter, _ *http.Request) {
	filter, mode := s.View.Current()
	kit.WriteJSON(w, http.StatusOK, viewResponse{Filter: filter, Sort: mode})
}

func (s *Server) viewReset(w http.ResponseWriter, _ *http.Request) {
	s.View.Reset()
	filter, mode := s.View.Current()
	kit.WriteJSON(w, http.StatusOK, viewResponse{Filter: filter, Sort: mode})
}
