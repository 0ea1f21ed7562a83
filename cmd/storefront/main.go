package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"CarpetStore/internal/storefront"
	"CarpetStore/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	metricsToken := os.Getenv("METRICS_TOKEN")

	h, err := storefront.NewHandler(
		storefront.Deps{
			CatalogURL: getenv("CATALOG_URL", "http://localhost:8082"),
			CartURL:    getenv("CART_URL", "http://localhost:8083"),
		},
		storefront.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       prometheus.NewRegistry(),
			MetricsEnabled: metricsToken != "",
			MetricsToken:   metricsToken,
		},
	)
	if err != nil {
		log.Fatal("storefront handler", zap.Error(err))
	}

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
