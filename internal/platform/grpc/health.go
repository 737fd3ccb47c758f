package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthPolicy bounds health polling.
type HealthPolicy struct {
	ProbeTimeout   time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultHealthPolicy is used when a caller leaves the policy zero.
var DefaultHealthPolicy = HealthPolicy{
	ProbeTimeout:   time.Second,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     time.Second,
}

func (p HealthPolicy) normalized() HealthPolicy {
	if p.ProbeTimeout <= 0 {
		p.ProbeTimeout = DefaultHealthPolicy.ProbeTimeout
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = DefaultHealthPolicy.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	return p
}

// WaitForHealth polls conn until service reports SERVING or ctx ends. An
// empty service asks for the overall server status.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return errors.New("health check needs a client connection")
	}
	return waitForHealth(ctx, grpc_health_v1.NewHealthClient(conn), service, DefaultHealthPolicy, logf)
}

func waitForHealth(ctx context.Context, client grpc_health_v1.HealthClient, service string, policy HealthPolicy, logf func(string, ...any)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	policy = policy.normalized()
	name := service
	if name == "" {
		name = "overall server"
	}

	delay := policy.InitialBackoff
	for attempt := 1; ; attempt++ {
		probeCtx, cancel := context.WithTimeout(ctx, policy.ProbeTimeout)
		resp, err := client.Check(probeCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		switch {
		case err != nil:
			logf("health probe %d for %s failed: %v", attempt, name, err)
		case resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING:
			logf("health for %s is SERVING after %d probe(s)", name, attempt)
			return nil
		default:
			logf("health probe %d for %s: %s", attempt, name, resp.GetStatus())
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s not serving: %w", name, ctx.Err())
		case <-timer.C:
		}
		delay = min(delay*2, policy.MaxBackoff)
	}
}
