package cart_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"CarpetStore/internal/cart"
	"CarpetStore/internal/catalog"
)

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	store := catalog.NewStore()
	store.Replace([]catalog.Product{
		{ID: 1, Name: "3D Center Carpet", Price: 300, Size: "140x200 cm"},
		{ID: 2, Name: "Fluffy Cloud Carpet", Price: 450, Size: "200x300 cm"},
	}, nil, false)

	s := &catalog.Server{Store: store, View: catalog.NewViewState(), Log: zap.NewNop()}
	h := catalog.NewHandler(s, catalog.HTTPDeps{Log: zap.NewNop(), Service: "catalog"})
	return httptest.NewServer(h)
}

func newCartTS(t *testing.T, catalogURL string) (*httptest.Server, *cart.MemSlot) {
	t.Helper()

	slot := cart.NewMemSlot()
	engine := cart.NewEngine(cart.NewCatalogClient(catalogURL), slot, zap.NewNop())

	s := &cart.Server{
		Engine: engine,
		Slot:   slot,
		Log:    zap.NewNop(),
	}
	h := cart.NewHandler(s, cart.HTTPDeps{Log: zap.NewNop(), Service: "cart"})
	return httptest.NewServer(h), slot
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d body=%s", method, url, resp.StatusCode, want, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode: %v (%s)", err, raw)
		}
	}
}

type view struct {
	Items  []cart.Line  `json:"items"`
	Count  int          `json:"count"`
	Totals *cart.Totals `json:"totals"`
}

func TestCartFlow(t *testing.T) {
	cts := newCatalogTS(t)
	defer cts.Close()
	ts, _ := newCartTS(t, cts.URL)
	defer ts.Close()

	var v view
	doJSON(t, http.MethodGet, ts.URL+"/cart", nil, &v, 200)
	if v.Count != 0 || v.Totals != nil {
		t.Fatalf("empty cart view = %+v", v)
	}

	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 1}, &v, 200)
	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 1}, &v, 200)
	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 2}, &v, 200)

	if len(v.Items) != 2 || v.Count != 3 {
		t.Fatalf("view = %+v", v)
	}
	if v.Totals == nil || v.Totals.Subtotal != 1050 || v.Totals.Delivery != 0 || v.Totals.Grand != 1050 {
		t.Fatalf("totals = %+v", v.Totals)
	}

	// decrement to zero removes the line
	doJSON(t, http.MethodPatch, ts.URL+"/cart/items/2", map[string]any{"quantity": 0}, &v, 200)
	if len(v.Items) != 1 || v.Items[0].ID != 1 {
		t.Fatalf("view after qty 0 = %+v", v)
	}

	v = view{}
	doJSON(t, http.MethodDelete, ts.URL+"/cart/items/1", nil, &v, 200)
	if v.Count != 0 || v.Totals != nil {
		t.Fatalf("view after remove = %+v", v)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	cts := newCatalogTS(t)
	defer cts.Close()
	ts, _ := newCartTS(t, cts.URL)
	defer ts.Close()

	// unknown ids are swallowed; the cart just stays as it was
	var v view
	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 999}, &v, 200)
	if v.Count != 0 {
		t.Fatalf("view = %+v", v)
	}
}

func TestCartAddCatalogDown(t *testing.T) {
	cts := newCatalogTS(t)
	cts.Close() // connection refused
	ts, _ := newCartTS(t, cts.URL)
	defer ts.Close()

	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 1}, nil, 503)
}

func TestCartClearNeedsConfirmation(t *testing.T) {
	cts := newCatalogTS(t)
	defer cts.Close()
	ts, slot := newCartTS(t, cts.URL)
	defer ts.Close()

	var v view
	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 1}, &v, 200)

	doJSON(t, http.MethodDelete, ts.URL+"/cart", nil, nil, 409)
	doJSON(t, http.MethodGet, ts.URL+"/cart", nil, &v, 200)
	if v.Count != 1 {
		t.Fatalf("cart changed by unconfirmed clear: %+v", v)
	}
	if !slot.Present() {
		t.Fatalf("slot removed by unconfirmed clear")
	}

	v = view{}
	doJSON(t, http.MethodDelete, ts.URL+"/cart?confirm=true", nil, &v, 200)
	if v.Count != 0 || v.Totals != nil {
		t.Fatalf("cart not cleared: %+v", v)
	}
	if slot.Present() {
		t.Fatalf("slot not removed by confirmed clear")
	}
}

func TestCartCheckoutEndpoint(t *testing.T) {
	cts := newCatalogTS(t)
	defer cts.Close()
	ts, _ := newCartTS(t, cts.URL)
	defer ts.Close()

	doJSON(t, http.MethodGet, ts.URL+"/cart/checkout", nil, nil, 400)

	var v view
	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 2}, &v, 200)

	var link cart.CheckoutLink
	doJSON(t, http.MethodGet, ts.URL+"/cart/checkout", nil, &link, 200)
	if link.URL == "" || link.Reference == "" {
		t.Fatalf("link = %+v", link)
	}
}

func TestCartBadRequests(t *testing.T) {
	cts := newCatalogTS(t)
	defer cts.Close()
	ts, _ := newCartTS(t, cts.URL)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/cart/items", bytes.NewReader([]byte(`{"product_id": "one"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("non-numeric id: status=%d", resp.StatusCode)
	}

	doJSON(t, http.MethodPatch, ts.URL+"/cart/items/abc", map[string]any{"quantity": 1}, nil, 400)
	doJSON(t, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": 1, "extra": true}, nil, 400)
}
