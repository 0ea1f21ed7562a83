package catalog

import (
	"sort"
	"strings"
	"sync"
)

const (
	FilterAll = "all"

	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortPopular   = "popular"
)

// Size filter tags match on substring containment against the free-text size
// label, not parsed dimensions. Kept as-is from the storefront's behavior.
var sizeSubstrings = map[string]string{
	"small":  "140x200",
	"medium": "230x160",
	"large":  "200x300",
}

// FilterProducts returns the subsequence of products matching tag. A product
// matching both by category and by badge appears once.
func FilterProducts(products []Product, tag string) []Product {
	if tag == "" || tag == FilterAll {
		return products
	}

	match := func(p Product) bool {
		return p.Category == tag || p.HasBadge(tag)
	}

	switch tag {
	case "bestseller", "new":
		match = func(p Product) bool { return p.HasBadge(tag) }
	case "small", "medium", "large":
		sub := sizeSubstrings[tag]
		match = func(p Product) bool { return strings.Contains(p.Size, sub) }
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// SortProducts returns a sorted copy; the input slice is never reordered.
// Unknown modes behave as featured: feed order unchanged.
func SortProducts(products []Product, mode string) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch mode {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Reviews > out[j].Reviews })
	}

	return out
}

// SearchProducts matches term case-insensitively against name, description
// and category. An empty term matches everything.
func SearchProducts(products []Product, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Categories is the fixed set of filter tags the storefront offers.
func Categories() []Category {
	return []Category{
		{ID: "all", Name: "All Products", Icon: "fas fa-th"},
		{ID: "3d", Name: "3D Carpets", Icon: "fas fa-cube"},
		{ID: "fluffy", Name: "Fluffy Carpets", Icon: "fas fa-cloud"},
		{ID: "bestseller", Name: "Best Sellers", Icon: "fas fa-star"},
		{ID: "new", Name: "New Arrivals", Icon: "fas fa-fire"},
		{ID: "small", Name: "Small (140x200)", Icon: "fas fa-ruler"},
		{ID: "medium", Name: "Medium (230x160)", Icon: "fas fa-ruler-combined"},
		{ID: "large", Name: "Large (200x300)", Icon: "fas fa-expand"},
	}
}

// ViewState is the session's active filter and sort selection. It lives in
// memory only and survives nothing; an explicit reset restores the defaults.
type ViewState struct {
	mu     sync.Mutex
	filter string
	sort   string
}

func NewViewState() *ViewState {
	return &ViewState{filter: FilterAll, sort: SortFeatured}
}

// Update applies the non-empty selections and returns the resulting state.
func (v *ViewState) Update(filter, sortMode string) (string, string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if filter != "" {
		v.filter = filter
	}
	if sortMode != "" {
		v.sort = sortMode
	}
	return v.filter, v.sort
}

func (v *ViewState) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = FilterAll
	v.sort = SortFeatured
}

func (v *ViewState) Current() (filter, sortMode string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter, v.sort
}
