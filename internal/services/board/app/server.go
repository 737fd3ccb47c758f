package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	platformgrpc "github.com/willoftheprophets/runabout/internal/platform/grpc"
	"github.com/willoftheprophets/runabout/internal/platform/timeouts"
	"github.com/willoftheprophets/runabout/internal/position"
	boardgrpc "github.com/willoftheprophets/runabout/internal/services/board/api/grpc/board"
	"github.com/willoftheprophets/runabout/internal/services/board/api/grpc/interceptors"
	"github.com/willoftheprophets/runabout/internal/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the board gRPC service.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      storage.Store
	calculator *position.Calculator
}

// New opens the store, applies any configured fixture and binds the port.
func New(ctx context.Context, cfg RuntimeConfig) (server *Server, err error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	defer func() {
		if err != nil {
			_ = listener.Close()
		}
	}()
	return NewWithListener(ctx, cfg, listener)
}

// NewWithListener builds a server on an existing listener. The listener is
// owned by the server once this returns without error.
func NewWithListener(ctx context.Context, cfg RuntimeConfig, listener net.Listener) (*Server, error) {
	if listener == nil {
		return nil, errors.New("listener is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	clock, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := seedStore(ctx, cfg, store); err != nil {
		closeStore(store)
		return nil, err
	}
	calculator, err := position.NewCalculator(store,
		position.WithClock(clock),
		position.WithCache(position.NewCache(cfg.CacheSize)),
	)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	grpcServer := platformgrpc.NewServer(
		interceptors.LocaleInterceptor(),
		interceptors.LoggingInterceptor(log.Printf),
	)
	boardgrpc.RegisterBoardServiceServer(grpcServer, boardgrpc.NewService(calculator))
	healthServer := platformgrpc.RegisterHealth(grpcServer, boardgrpc.ServiceName)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		calculator: calculator,
	}, nil
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a board server until the context ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the board server and blocks until it stops or the context
// ends. The store is closed on return.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.grpcServer == nil {
		return errors.New("board server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer closeStore(s.store)

	group, groupCtx := errgroup.WithContext(ctx)
	stopped := make(chan struct{})

	group.Go(func() error {
		defer close(stopped)
		log.Printf("board server listening at %v", s.listener.Addr())
		platformgrpc.SetServing(s.health, grpc_health_v1.HealthCheckResponse_SERVING, boardgrpc.ServiceName)
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		select {
		case <-groupCtx.Done():
		case <-stopped:
			return nil
		}
		s.health.Shutdown()
		s.stop(timeouts.Shutdown)
		log.Printf("board server stopped")
		return nil
	})
	return group.Wait()
}

// stop drains in-flight calls, forcing the server closed after grace.
func (s *Server) stop(grace time.Duration) {
	drained := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(drained)
	}()
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		log.Printf("board server drain exceeded %s; forcing stop", grace)
		s.grpcServer.Stop()
		<-drained
	}
}

func closeStore(store storage.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Printf("close board store: %v", err)
	}
}
