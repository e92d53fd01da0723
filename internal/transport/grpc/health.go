// Package grpc exposes the product service health over the gRPC health protocol.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the fully qualified name reported next to the overall ("") status.
const ServiceName = "product.v1.ProductService"

// Pinger is implemented by stores that can report their liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps a health.Server in sync with the store liveness.
type HealthReporter struct {
	pinger   Pinger
	hs       *health.Server
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthReporter(pinger Pinger, hs *health.Server, interval time.Duration, logger *slog.Logger) *HealthReporter {
	return &HealthReporter{
		pinger:   pinger,
		hs:       hs,
		interval: interval,
		logger:   logger.With("component", "health"),
	}
}

// Run checks the store immediately and then on every interval until ctx is done.
func (r *HealthReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Check(ctx)
		}
	}
}

// Check pings the store once and updates the serving status.
func (r *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := r.pinger.Ping(pingCtx); err != nil {
		r.logger.WarnContext(ctx, "Store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.set(status)
	return status
}

// Shutdown marks every service as NOT_SERVING and ignores later updates.
func (r *HealthReporter) Shutdown() {
	r.hs.Shutdown()
}

func (r *HealthReporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	r.hs.SetServingStatus("", status)
	r.hs.SetServingStatus(ServiceName, status)
}
