package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/test/bufconn"
)

const bufTarget = "passthrough:///bufnet"

var fastHealth = HealthPolicy{
	ProbeTimeout:   200 * time.Millisecond,
	InitialBackoff: 10 * time.Millisecond,
	MaxBackoff:     20 * time.Millisecond,
}

// startBufServer serves a health-registered server over an in-memory
// listener and returns the health handle plus dial options reaching it.
func startBufServer(t *testing.T, services []string, interceptors ...gogrpc.UnaryServerInterceptor) (*health.Server, []gogrpc.DialOption) {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	server := NewServer(interceptors...)
	hs := RegisterHealth(server, services...)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(func() {
		server.Stop()
		_ = listener.Close()
	})

	return hs, []gogrpc.DialOption{
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	}
}
