// Package app contains the application setup for the product service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productos/internal/config"
	"github.com/abgdnv/productos/internal/service"
	"github.com/abgdnv/productos/internal/store"
	grpcImpl "github.com/abgdnv/productos/internal/transport/grpc"
	"github.com/abgdnv/productos/internal/transport/rest"
	"github.com/abgdnv/productos/pkg/bootstrap"
	"github.com/abgdnv/productos/pkg/messaging"
	natsclient "github.com/abgdnv/productos/pkg/nats"
	"github.com/abgdnv/productos/pkg/server"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// StreamName is the JetStream stream receiving product events.
const StreamName = "PRODUCTS"

// streamSubjects are the subjects captured by StreamName.
var streamSubjects = []string{"products.>"}

type Dependencies struct {
	ProductService service.ProductService
	Store          store.ProductStore
	Health         *health.Server
	Logger         *slog.Logger

	// Metrics, when set, is served with GET on MetricsPath.
	Metrics     http.Handler
	MetricsPath string
}

func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(productStore, publisher, logger),
		Store:          productStore,
		Health:         health.NewServer(),
		Logger:         logger,
	}
}

// NewStore builds the store selected by cfg.Store. The returned close function releases
// its resources and is never nil.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	if !cfg.Store.UsesPostgres() {
		logger.Info("Using in-memory product store")
		return store.NewMemStore(), func() {}, nil
	}

	if cfg.Database.Migrate {
		if err := store.Migrate(cfg.Database.URL, logger); err != nil {
			return nil, nil, err
		}
	}
	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// NewPublisher connects to NATS JetStream when enabled and falls back to a no-op publisher otherwise.
// The returned close function is never nil.
func NewPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.NATS.Enabled {
		logger.Info("NATS disabled, product events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := natsclient.EnsureStream(ctx, js, StreamName, streamSubjects...); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Publishing product events to NATS", "url", cfg.NATS.Url, "stream", StreamName)
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("failed to drain NATS connection", "error", err)
		}
	}
	return natsclient.NewNatsPublisher(js), closeFn, nil
}

// SetupHttpHandler builds the router with all product routes.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.Metrics)
	}
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, "product-http", mux)
}

// SetupGrpcServer creates the gRPC server exposing the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, server.WithHealth(deps.Health))
}

// SetupHealthReporter feeds the gRPC health server with store pings.
func SetupHealthReporter(deps *Dependencies, cfg *config.Config) *grpcImpl.HealthReporter {
	return grpcImpl.NewHealthReporter(deps.Store, deps.Health, cfg.GRPC.HealthInterval, deps.Logger)
}
