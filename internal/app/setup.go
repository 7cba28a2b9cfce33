// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/metrics"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type Dependencies struct {
	ProductService service.ProductService
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
}

// SetupDependencies builds the service on top of the file store configured in cfg.
// Collectors are registered on registry.
func SetupDependencies(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) *Dependencies {
	m := metrics.New(registry)
	fileStore := store.NewFileStore(cfg.Store.Path, cfg.Store.Mode())
	logger.Info("Using file store", slog.String("path", fileStore.Path()), slog.String("mode", cfg.Store.Mode().String()))
	pService := service.NewService(m.WrapStore(fileStore), validation.New())

	return &Dependencies{
		ProductService: pService,
		Metrics:        m,
		Gatherer:       registry,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the routes and middleware of the catalog API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger,
		server.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge),
		deps.Metrics.Middleware,
	)
	wireRoutes(mux, deps, cfg)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)

	if cfg.Metrics.Enabled {
		mux.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler(deps.Gatherer))
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
