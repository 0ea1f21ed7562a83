package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CarpetStore/pkg/kit"
)

type Server struct {
	Engine *Engine
	Slot   SlotStore
	Phone  string
	Log    *zap.Logger
}

const maxBodyBytes = 1 << 16

type addReq struct {
	ProductID int `json:"product_id"`
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

// cartView mirrors the sidebar: items in add order, total item count, and a
// totals block that is absent entirely while the cart is empty.
type cartView struct {
	Items  []Line  `json:"items"`
	Count  int     `json:"count"`
	Totals *Totals `json:"totals,omitempty"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Slot.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/cart", s.view)
	r.Post("/cart/items", s.add)
	r.Patch("/cart/items/{id}", s.setQuantity)
	r.Delete("/cart/items/{id}", s.remove)
	r.Delete("/cart", s.clear)
	r.Get("/cart/checkout", s.checkout)

	return r
}

func (s *Server) view(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.currentView())
}

func (s *Server) currentView() cartView {
	lines := s.Engine.Lines()

	v := cartView{Items: lines, Count: 0}
	for _, l := range lines {
		v.Count += l.Quantity
	}
	if len(lines) > 0 {
		t := ComputeTotals(lines)
		v.Totals = &t
	}
	return v
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if err := s.Engine.Add(r.Context(), req.ProductID); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.currentView())
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}

	var req quantityReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if err := s.Engine.SetQuantity(r.Context(), id, req.Quantity); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.currentView())
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}

	if err := s.Engine.Remove(r.Context(), id); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.currentView())
}

// clear requires confirm=true; anything else leaves the cart untouched, the
// same way cancelling the confirmation prompt does.
func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		kit.WriteError(w, r, http.StatusConflict, "confirmation required", nil)
		return
	}

	if err := s.Engine.Clear(r.Context(), true); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.currentView())
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	link, err := BuildCheckout(s.Engine.Lines(), s.Phone)
	if errors.Is(err, ErrEmptyCart) {
		kit.WriteError(w, r, http.StatusBadRequest, "cart is empty", nil)
		return
	}
	if err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, link)
}

func (s *Server) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if s.Log != nil {
		s.Log.Error("cart mutation failed", zap.Error(err))
	}
	switch {
	case errors.Is(err, ErrCatalogUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errors.Is(err, ErrCatalogBadStatus):
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(out); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
