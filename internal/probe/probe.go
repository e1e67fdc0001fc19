// Package probe serves the gRPC health protocol for orchestrators.
package probe

import (
	"context"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

func NewServer() *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	return &Server{grpcServer: grpcServer, health: healthServer}
}

// SetServing marks the overall service and every named component as serving.
func (s *Server) SetServing(components ...string) {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, c := range components {
		s.health.SetServingStatus(c, healthpb.HealthCheckResponse_SERVING)
	}
}

// Watch runs check every interval and publishes the result under name
// until ctx is done.
func (s *Server) Watch(ctx context.Context, name string, interval time.Duration, check Check) {
	s.report(ctx, name, check)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.report(ctx, name, check)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) report(ctx context.Context, name string, check Check) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := check(ctx); err != nil {
		slog.WarnContext(ctx, "health check failed", slog.String("component", name), slog.Any("error", err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(name, status)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop reports NOT_SERVING to watchers and stops accepting new RPCs.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
