package interceptors

import (
	"context"
	"strings"

	"github.com/willoftheprophets/runabout/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// LocaleHeader carries the caller's preferred language.
const LocaleHeader = "accept-language"

// LocaleInterceptor stores the first accept-language tag in the request
// context for localized error details.
func LocaleInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if locale := localeFromMetadata(ctx); locale != "" {
			ctx = requestctx.WithLocale(ctx, locale)
		}
		return handler(ctx, req)
	}
}

func localeFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(LocaleHeader)
	if len(values) == 0 {
		return ""
	}
	// Quality weights are ignored; the first tag wins.
	first, _, _ := strings.Cut(values[0], ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}
