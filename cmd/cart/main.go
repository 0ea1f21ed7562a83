package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"

	"CarpetStore/internal/cart"
	"CarpetStore/pkg/kit"
)

const restoreTimeout = 5 * time.Second

func main() {
	service := "cart"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8083")
	catalogURL := getenv("CATALOG_URL", "http://localhost:8082")
	phone := getenv("WHATSAPP_PHONE", cart.DefaultWhatsAppPhone)
	metricsToken := os.Getenv("METRICS_TOKEN")

	slot := buildSlot(log)
	engine := cart.NewEngine(cart.NewCatalogClient(catalogURL), slot, log)

	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	engine.Restore(ctx)
	cancel()

	s := &cart.Server{
		Engine: engine,
		Slot:   slot,
		Phone:  phone,
		Log:    log,
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: metricsToken != "",
		MetricsToken:   metricsToken,
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// buildSlot picks the slot backend: Postgres when configured, a JSON file on
// disk otherwise.
func buildSlot(log *zap.Logger) cart.SlotStore {
	key := getenv("CART_SLOT_KEY", cart.DefaultSlotKey)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			log.Warn("open database failed, falling back to file slot", zap.Error(err))
		} else {
			return cart.NewPostgresSlot(db, key)
		}
	}

	return cart.NewFileSlot(getenv("CART_SLOT_FILE", key+".json"))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
