// Package interceptors holds unary interceptors for the board service.
package interceptors

import (
	"context"
	"time"

	boardgrpc "github.com/willoftheprophets/runabout/internal/services/board/api/grpc/board"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Logf matches log.Printf.
type Logf func(format string, args ...any)

// LoggingInterceptor logs one line per unary call handled by the board
// service: method, kind, status code, duration and trace id when present.
func LoggingInterceptor(logf Logf) grpc.UnaryServerInterceptor {
	return loggingInterceptor(logf, time.Now)
}

func loggingInterceptor(logf Logf, now func() time.Time) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := now()
		resp, err := handler(ctx, req)
		if logf == nil {
			return resp, err
		}

		code := status.Code(err)
		traceID := "-"
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
		}
		elapsed := now().Sub(start).Round(time.Microsecond)
		logf("grpc %s kind=%s code=%s duration=%s trace_id=%s", info.FullMethod, classifyMethodKind(info.FullMethod), code, elapsed, traceID)
		return resp, err
	}
}

func classifyMethodKind(fullMethod string) string {
	switch fullMethod {
	case boardgrpc.BoardService_CalculatePosition_FullMethodName,
		boardgrpc.BoardService_TraceReplay_FullMethodName:
		return "read"
	case boardgrpc.BoardService_ClearCaches_FullMethodName:
		return "write"
	default:
		return "other"
	}
}
