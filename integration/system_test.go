//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	// start from a clean cart; a previous run may have persisted one
	doJSON(t, http.MethodDelete, baseURL+"/cart?confirm=true", nil, nil, 200)

	var list struct {
		Products []map[string]any `json:"products"`
	}
	doJSON(t, http.MethodGet, baseURL+"/products", nil, &list, 200)
	if len(list.Products) == 0 {
		t.Fatalf("expected non-empty products")
	}

	pid, ok := list.Products[0]["id"].(float64)
	if !ok || pid == 0 {
		t.Fatalf("product id missing in response: %#v", list.Products[0])
	}

	var v struct {
		Count  int            `json:"count"`
		Totals map[string]any `json:"totals"`
	}
	doJSON(t, http.MethodPost, baseURL+"/cart/items", map[string]any{"product_id": int(pid)}, &v, 200)
	doJSON(t, http.MethodPost, baseURL+"/cart/items", map[string]any{"product_id": int(pid)}, &v, 200)
	if v.Count != 2 {
		t.Fatalf("cart count = %d", v.Count)
	}

	var link struct {
		URL       string `json:"url"`
		Reference string `json:"reference"`
	}
	doJSON(t, http.MethodGet, baseURL+"/cart/checkout", nil, &link, 200)
	if link.URL == "" || link.Reference == "" {
		t.Fatalf("checkout link = %#v", link)
	}

	if os.Getenv("E2E_RESTART_CART") == "1" {
		restartCartContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		// the slot outlives the process
		doJSON(t, http.MethodGet, baseURL+"/cart", nil, &v, 200)
		if v.Count != 2 {
			t.Fatalf("cart not restored after restart: count=%d", v.Count)
		}
	}

	doJSON(t, http.MethodDelete, baseURL+"/cart?confirm=true", nil, &v, 200)
	if v.Count != 0 {
		t.Fatalf("cart not cleared: count=%d", v.Count)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
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
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
