package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"

	"CarpetStore/internal/catalog"
	"CarpetStore/pkg/kit"
)

const loadTimeout = 10 * time.Second

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8082")
	metricsToken := os.Getenv("METRICS_TOKEN")

	store := catalog.NewStore()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	catalog.LoadInto(ctx, buildSource(log), store, log)
	cancel()

	s := &catalog.Server{
		Store: store,
		View:  catalog.NewViewState(),
		Log:   log,
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
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

// buildSource picks the catalog source: a database when configured, the JSON
// feeds when their URLs are set, otherwise nothing (embedded fallback data).
func buildSource(log *zap.Logger) catalog.Source {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			log.Warn("open database failed, ignoring DATABASE_URL", zap.Error(err))
		} else {
			return catalog.NewPostgresSource(db)
		}
	}

	productsURL := os.Getenv("PRODUCTS_URL")
	testimonialsURL := os.Getenv("TESTIMONIALS_URL")
	if productsURL != "" && testimonialsURL != "" {
		return catalog.NewHTTPSource(productsURL, testimonialsURL)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
