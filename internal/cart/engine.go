package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"CarpetStore/internal/catalog"
)

// Line is one cart entry: a product id plus a snapshot of the product fields
// taken at add time. The snapshot is deliberate — later catalog changes must
// not rewrite historical cart entries.
type Line struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
}

const (
	FreeDeliveryOver = 1000.0
	DeliveryFee      = 50.0
)

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Delivery float64 `json:"delivery"`
	Grand    float64 `json:"grand_total"`
}

// ProductSource resolves product ids at add time. ErrProductNotFound marks an
// unknown id; any other error means the source itself is unavailable.
type ProductSource interface {
	Product(ctx context.Context, id int) (catalog.Product, error)
}

var ErrProductNotFound = errors.New("product not found")

// StoreSource serves product lookups from an in-process catalog store.
type StoreSource struct {
	Store *catalog.Store
}

func (s StoreSource) Product(_ context.Context, id int) (catalog.Product, error) {
	p, ok := s.Store.Product(id)
	if !ok {
		return catalog.Product{}, ErrProductNotFound
	}
	return p, nil
}

// Engine owns the cart: an ordered line sequence keyed by product id, at most
// one line per product. Every mutation re-persists the whole sequence to the
// slot; a confirmed clear removes the slot instead.
type Engine struct {
	mu       sync.Mutex
	lines    []Line
	slot     SlotStore
	products ProductSource
	log      *zap.Logger
}

func NewEngine(products ProductSource, slot SlotStore, log *zap.Logger) *Engine {
	return &Engine{slot: slot, products: products, log: log}
}

// Restore rehydrates the cart from the slot. A missing or corrupt slot yields
// an empty cart; nothing is surfaced to the caller.
func (e *Engine) Restore(ctx context.Context) {
	lines, ok, err := e.slot.Load(ctx)
	if err != nil {
		if e.log != nil {
			e.log.Warn("cart slot unreadable, starting empty", zap.Error(err))
		}
		return
	}
	if !ok {
		return
	}

	e.mu.Lock()
	e.lines = sanitize(lines)
	e.mu.Unlock()
}

// sanitize drops lines a valid engine could never have produced.
func sanitize(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	seen := make(map[int]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Add looks the product up and either bumps the existing line's quantity or
// appends a new line with quantity 1. An unknown id is a silent no-op.
func (e *Engine) Add(ctx context.Context, productID int) error {
	p, err := e.products.Product(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].ID == productID {
			e.lines[i].Quantity++
			return e.persist(ctx)
		}
	}

	e.lines = append(e.lines, Line{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Size:     p.Size,
		Quantity: 1,
	})
	return e.persist(ctx)
}

// Remove drops the line for productID; absent ids are a no-op.
func (e *Engine) Remove(ctx context.Context, productID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(ctx, productID)
}

func (e *Engine) removeLocked(ctx context.Context, productID int) error {
	kept := e.lines[:0]
	for _, l := range e.lines {
		if l.ID != productID {
			kept = append(kept, l)
		}
	}
	e.lines = kept
	return e.persist(ctx)
}

// SetQuantity sets the line's quantity. Anything below 1 removes the line,
// exactly like Remove. No upper bound is enforced against stock.
func (e *Engine) SetQuantity(ctx context.Context, productID, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity < 1 {
		return e.removeLocked(ctx, productID)
	}

	for i := range e.lines {
		if e.lines[i].ID == productID {
			e.lines[i].Quantity = quantity
			return e.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart and deletes the slot. Without confirmation the cart
// is left byte-for-byte untouched.
func (e *Engine) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	return e.slot.Clear(ctx)
}

// Lines returns a copy of the cart in add order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// ItemCount is the total quantity across all lines.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, l := range e.lines {
		n += l.Quantity
	}
	return n
}

// ComputeTotals derives totals from the current lines; nothing is stored.
// Delivery is free above the threshold, a flat fee otherwise.
func (e *Engine) ComputeTotals() Totals {
	return ComputeTotals(e.Lines())
}

func ComputeTotals(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.Price * float64(l.Quantity)
	}
	if t.Subtotal > FreeDeliveryOver {
		t.Delivery = 0
	} else {
		t.Delivery = DeliveryFee
	}
	t.Grand = t.Subtotal + t.Delivery
	return t
}

// persist writes the full line sequence. Callers hold e.mu.
func (e *Engine) persist(ctx context.Context) error {
	return e.slot.Save(ctx, e.lines)
}
