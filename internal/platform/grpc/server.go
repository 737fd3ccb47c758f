package grpc

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer creates a gRPC server with OTel server instrumentation and the
// given unary interceptors chained in order.
func NewServer(interceptors ...gogrpc.UnaryServerInterceptor) *gogrpc.Server {
	opts := []gogrpc.ServerOption{
		gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
	}
	if len(interceptors) > 0 {
		opts = append(opts, gogrpc.ChainUnaryInterceptor(interceptors...))
	}
	return gogrpc.NewServer(opts...)
}

// RegisterHealth registers a health server on server and marks the overall
// server and every named service as NOT_SERVING until the caller flips them.
func RegisterHealth(server *gogrpc.Server, services ...string) *health.Server {
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
	return healthServer
}

// SetServing marks the overall server and every named service with status.
func SetServing(healthServer *health.Server, status grpc_health_v1.HealthCheckResponse_ServingStatus, services ...string) {
	if healthServer == nil {
		return
	}
	healthServer.SetServingStatus("", status)
	for _, service := range services {
		healthServer.SetServingStatus(service, status)
	}
}
