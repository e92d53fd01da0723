package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/productos/internal/config"
	"github.com/abgdnv/productos/internal/service"
	"github.com/abgdnv/productos/internal/store"
	pkgconfig "github.com/abgdnv/productos/pkg/config"
	"github.com/abgdnv/productos/pkg/messaging"
	"github.com/abgdnv/productos/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryConfig() *config.Config {
	var cfg config.Config
	cfg.HTTPServer.Port = 8081
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20
	cfg.HTTPServer.Timeout.Read = time.Second
	cfg.HTTPServer.Timeout.Write = time.Second
	cfg.HTTPServer.Timeout.Idle = time.Second
	cfg.HTTPServer.Timeout.ReadHeader = time.Second
	cfg.Store.Driver = pkgconfig.StoreDriverMemory
	cfg.GRPC.Port = "50051"
	cfg.GRPC.HealthInterval = time.Second
	return &cfg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := memoryConfig()
	productStore, closeStore, err := NewStore(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(closeStore)
	publisher, closePublisher, err := NewPublisher(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(closePublisher)

	srv := httptest.NewServer(SetupHttpHandler(SetupDependencies(productStore, publisher, testLogger())))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(web.RequestIDHeader))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestNewStore_Memory(t *testing.T) {
	productStore, closeStore, err := NewStore(context.Background(), memoryConfig(), testLogger())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &store.MemStore{}, productStore)
}

func TestNewPublisher_Disabled(t *testing.T) {
	publisher, closePublisher, err := NewPublisher(context.Background(), memoryConfig(), testLogger())
	require.NoError(t, err)
	defer closePublisher()
	assert.IsType(t, messaging.NoopPublisher{}, publisher)
}

func TestSetupHttpServer(t *testing.T) {
	deps := SetupDependencies(store.NewMemStore(), nil, testLogger())
	srv := SetupHttpServer(deps, memoryConfig())
	assert.Equal(t, ":8081", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}

func TestSetupGrpcServer_RegistersHealth(t *testing.T) {
	deps := SetupDependencies(store.NewMemStore(), nil, testLogger())
	grpcServer := SetupGrpcServer(deps, false)
	defer grpcServer.Stop()
	assert.Contains(t, grpcServer.GetServiceInfo(), "grpc.health.v1.Health")
}

func TestSetupHealthReporter(t *testing.T) {
	deps := SetupDependencies(store.NewMemStore(), nil, testLogger())
	reporter := SetupHealthReporter(deps, memoryConfig())
	reporter.Check(context.Background())
	resp, err := deps.Health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestSetupHttpHandler_Metrics(t *testing.T) {
	// given
	deps := SetupDependencies(store.NewMemStore(), nil, testLogger())
	deps.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("product_writes_total 1"))
	})
	deps.MetricsPath = "/metrics"
	// when
	rec := httptest.NewRecorder()
	SetupHttpHandler(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product_writes_total 1", rec.Body.String())
}

func TestInMemoryProductFlow(t *testing.T) {
	srv := newTestServer(t)

	// create
	status, body := do(t, srv, http.MethodPost, "/products", service.ProductDto{Name: "Alfajor", Description: "dulce", Price: 350.0, Stock: 500})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Producto creado exitosamente"}`, string(body))

	// duplicate name in other case
	status, body = do(t, srv, http.MethodPost, "/products", service.ProductDto{Name: "alfajor", Price: 1.0})
	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Ya existe un producto con el nombre: alfajor"}`, string(body))

	// more products
	for _, p := range []service.ProductDto{{Name: "Mate", Price: 150.0, Stock: 5}, {Name: "Yerba", Price: 75.0, Stock: 9}} {
		status, _ = do(t, srv, http.MethodPost, "/products", p)
		require.Equal(t, http.StatusOK, status)
	}

	// find by name
	status, body = do(t, srv, http.MethodGet, "/products/name/ALFAJOR", nil)
	require.Equal(t, http.StatusOK, status)
	var alfajor service.ProductDto
	require.NoError(t, json.Unmarshal(body, &alfajor))
	assert.Equal(t, service.ProductDto{ID: 1, Name: "Alfajor", Description: "dulce", Price: 350.0, Stock: 500}, alfajor)

	// sorted by price
	status, body = do(t, srv, http.MethodGet, "/products/prices", nil)
	require.Equal(t, http.StatusOK, status)
	var sorted []service.ProductDto
	require.NoError(t, json.Unmarshal(body, &sorted))
	require.Len(t, sorted, 3)
	assert.Equal(t, []float64{75.0, 150.0, 350.0}, []float64{sorted[0].Price, sorted[1].Price, sorted[2].Price})

	// update forces the path id
	status, body = do(t, srv, http.MethodPut, "/products/2", service.ProductDto{ID: 99, Name: "Mate Cocido", Price: 120, Stock: 1})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Producto actualizado correctamente"}`, string(body))
	status, body = do(t, srv, http.MethodGet, "/products/id/2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":2,"name":"Mate Cocido","description":"","price":120,"stock":1}`, string(body))

	// update unknown id
	status, body = do(t, srv, http.MethodPut, "/products/99", service.ProductDto{Name: "Ghost"})
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"ID inválido"}`, string(body))

	// delete
	status, body = do(t, srv, http.MethodDelete, "/products/1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Producto con ID: 1 eliminado correctamente"}`, string(body))
	status, body = do(t, srv, http.MethodGet, "/products/id/1", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"No se pudo encontrar el producto"}`, string(body))
	status, _ = do(t, srv, http.MethodDelete, "/products/1", nil)
	require.Equal(t, http.StatusNotFound, status)

	// list
	status, body = do(t, srv, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, status)
	var all []service.ProductDto
	require.NoError(t, json.Unmarshal(body, &all))
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)
	assert.Equal(t, int64(3), all[1].ID)

	// health
	status, _ = do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
}
