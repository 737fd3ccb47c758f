// Package grpc holds gRPC client and server plumbing shared by runabout binaries.
package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// DialFunc creates a client connection. gogrpc.NewClient satisfies it.
type DialFunc func(target string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialConfig describes a connection that must pass a health check before use.
type DialConfig struct {
	Addr string
	// Service is the health service name; empty checks the whole server.
	Service string
	// Timeout bounds the health wait. Zero leaves only ctx in charge.
	Timeout time.Duration
	Logf    func(string, ...any)
	Dial    DialFunc
	Options []gogrpc.DialOption
	Health  HealthPolicy
}

// DialStage names the step a dial failed at.
type DialStage string

const (
	DialStageConnect DialStage = "connect"
	DialStageHealth  DialStage = "health"
)

// DialError reports which stage of DialWithHealth failed.
type DialError struct {
	Addr  string
	Stage DialStage
	Err   error
}

func (e *DialError) Error() string {
	if e == nil {
		return "grpc dial failed"
	}
	return fmt.Sprintf("grpc dial %s: %s: %v", e.Addr, e.Stage, e.Err)
}

func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DefaultClientDialOptions returns plaintext options with OTel client
// instrumentation.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DialWithHealth opens a client for cfg.Addr and waits for cfg.Service to
// report SERVING. The connection is closed if the wait fails.
func DialWithHealth(ctx context.Context, cfg DialConfig) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dial := cfg.Dial
	if dial == nil {
		dial = gogrpc.NewClient
	}
	opts := cfg.Options
	if len(opts) == 0 {
		opts = DefaultClientDialOptions()
	}

	conn, err := dial(cfg.Addr, opts...)
	if err != nil {
		return nil, &DialError{Addr: cfg.Addr, Stage: DialStageConnect, Err: err}
	}

	waitCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := waitForHealth(waitCtx, grpc_health_v1.NewHealthClient(conn), cfg.Service, cfg.Health, cfg.Logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Addr: cfg.Addr, Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
