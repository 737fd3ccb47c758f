// Package board exposes runabout position queries over gRPC.
package board

import (
	"context"
	"errors"
	"log"
	"time"

	boarddomain "github.com/willoftheprophets/runabout/internal/board"
	apperrors "github.com/willoftheprophets/runabout/internal/platform/errors"
	"github.com/willoftheprophets/runabout/internal/platform/errors/i18n"
	"github.com/willoftheprophets/runabout/internal/platform/requestctx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Calculator is the position query surface the service depends on.
type Calculator interface {
	CalculatePosition(ctx context.Context, at time.Time) (int, error)
	Trace(ctx context.Context, at time.Time) ([]boarddomain.Step, error)
	ClearCaches()
}

// Service implements BoardServiceServer.
type Service struct {
	calculator Calculator
}

// NewService creates a board service backed by calculator.
func NewService(calculator Calculator) *Service {
	return &Service{calculator: calculator}
}

// CalculatePosition returns the runabout square at the requested time.
func (s *Service) CalculatePosition(ctx context.Context, in *timestamppb.Timestamp) (*wrapperspb.Int32Value, error) {
	if s == nil || s.calculator == nil {
		return nil, status.Error(codes.Internal, "calculator is not configured")
	}
	at, err := queryTime(ctx, in)
	if err != nil {
		return nil, err
	}

	position, err := s.calculator.CalculatePosition(ctx, at)
	if err != nil {
		return nil, handleError(ctx, "calculate position", err)
	}
	return wrapperspb.Int32(int32(position)), nil
}

// TraceReplay returns every replay step up to the requested time.
func (s *Service) TraceReplay(ctx context.Context, in *timestamppb.Timestamp) (*structpb.ListValue, error) {
	if s == nil || s.calculator == nil {
		return nil, status.Error(codes.Internal, "calculator is not configured")
	}
	at, err := queryTime(ctx, in)
	if err != nil {
		return nil, err
	}

	steps, err := s.calculator.Trace(ctx, at)
	if err != nil {
		return nil, handleError(ctx, "trace replay", err)
	}
	values := make([]any, 0, len(steps))
	for _, step := range steps {
		values = append(values, stepValue(step))
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode steps: %v", err)
	}
	return list, nil
}

// ClearCaches drops memoized positions.
func (s *Service) ClearCaches(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if s == nil || s.calculator == nil {
		return nil, status.Error(codes.Internal, "calculator is not configured")
	}
	s.calculator.ClearCaches()
	log.Printf("position caches cleared")
	return &emptypb.Empty{}, nil
}

func queryTime(ctx context.Context, in *timestamppb.Timestamp) (time.Time, error) {
	if in == nil {
		return time.Time{}, apperrors.New(apperrors.CodeQueryTimeMissing, "query time is required").LocalizedGRPCStatus(localeFromContext(ctx))
	}
	if err := in.CheckValid(); err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeQueryTimeInvalid, "query time is invalid", err).LocalizedGRPCStatus(localeFromContext(ctx))
	}
	return in.AsTime(), nil
}

func handleError(ctx context.Context, operation string, err error) error {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.LocalizedGRPCStatus(localeFromContext(ctx))
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Errorf(codes.Internal, "%s: %v", operation, err)
}

func localeFromContext(ctx context.Context) string {
	return requestctx.LocaleFromContext(ctx, i18n.BaseLocale)
}

func stepValue(step boarddomain.Step) map[string]any {
	modifier := ""
	if step.Modifier != nil {
		modifier = string(step.Modifier.Kind())
	}
	return map[string]any{
		"roll":     step.Roll.Number,
		"embargo":  step.Roll.Embargo.UTC().Format(time.RFC3339),
		"landed":   step.Landed,
		"modifier": modifier,
		"position": step.Position,
	}
}

var _ BoardServiceServer = (*Service)(nil)
