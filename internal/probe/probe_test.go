package probe

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func setupProbe(t *testing.T) (*Server, healthpb.HealthClient) {
	lis := bufconn.Listen(1024 * 1024)
	srv := NewServer()
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})
	return srv, healthpb.NewHealthClient(conn)
}

// status returns SERVICE_UNKNOWN for services the health server has not seen yet
func status(client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.Status
}

func TestServer_SetServing(t *testing.T) {
	srv, client := setupProbe(t)

	srv.SetServing("cart")

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(client, "cart"))
}

func TestServer_Watch_ReportsFailures(t *testing.T) {
	srv, client := setupProbe(t)
	srv.SetServing()

	var healthy atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Watch(ctx, "redis", 10*time.Millisecond, func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("connection refused")
	})

	require.Eventually(t, func() bool {
		return status(client, "redis") == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	healthy.Store(true)
	require.Eventually(t, func() bool {
		return status(client, "redis") == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)
}

func TestServer_TracesHealthChecks(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	srv, client := setupProbe(t)
	srv.SetServing()

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(client, ""))

	require.Eventually(t, func() bool {
		for _, s := range spans.Ended() {
			if s.Name() == "grpc.health.v1.Health/Check" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}
