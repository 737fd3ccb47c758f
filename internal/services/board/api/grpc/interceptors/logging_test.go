package interceptors

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	boardgrpc "github.com/willoftheprophets/runabout/internal/services/board/api/grpc/board"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLog struct {
	lines []string
}

func (r *recordingLog) logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func steppingClock(step time.Duration) func() time.Time {
	current := time.Date(2369, 7, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestClassifyMethodKind(t *testing.T) {
	tests := map[string]string{
		boardgrpc.BoardService_CalculatePosition_FullMethodName: "read",
		boardgrpc.BoardService_TraceReplay_FullMethodName:       "read",
		boardgrpc.BoardService_ClearCaches_FullMethodName:       "write",
		"/grpc.health.v1.Health/Check":                          "other",
	}
	for method, want := range tests {
		if got := classifyMethodKind(method); got != want {
			t.Fatalf("classifyMethodKind(%q) = %q, want %q", method, got, want)
		}
	}
}

func TestLoggingInterceptorLogsSuccess(t *testing.T) {
	rec := &recordingLog{}
	interceptor := loggingInterceptor(rec.logf, steppingClock(3*time.Millisecond))
	info := &grpc.UnaryServerInfo{FullMethod: boardgrpc.BoardService_CalculatePosition_FullMethodName}

	resp, err := interceptor(context.Background(), "req", info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("resp = %v, want ok", resp)
	}
	if len(rec.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(rec.lines))
	}
	line := rec.lines[0]
	for _, want := range []string{"CalculatePosition", "kind=read", "code=OK", "duration=3ms", "trace_id=-"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestLoggingInterceptorLogsErrorCodeAndTraceID(t *testing.T) {
	rec := &recordingLog{}
	interceptor := loggingInterceptor(rec.logf, steppingClock(time.Millisecond))
	info := &grpc.UnaryServerInfo{FullMethod: boardgrpc.BoardService_ClearCaches_FullMethodName}

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	_, err := interceptor(ctx, nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Unavailable, "store busy")
	})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("code = %s, want Unavailable", status.Code(err))
	}
	line := rec.lines[0]
	for _, want := range []string{"kind=write", "code=Unavailable", "trace_id=0102030405060708090a0b0c0d0e0f10"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestLoggingInterceptorNilLogger(t *testing.T) {
	interceptor := LoggingInterceptor(nil)
	info := &grpc.UnaryServerInfo{FullMethod: boardgrpc.BoardService_TraceReplay_FullMethodName}
	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return 42, nil
	})
	if err != nil || resp != 42 {
		t.Fatalf("resp, err = %v, %v", resp, err)
	}
}
