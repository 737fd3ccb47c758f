// Package requestctx carries request-scoped values through context.
package requestctx

import (
	"context"
	"strings"
)

type localeContextKey struct{}

// WithLocale stores the caller's preferred locale in context.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, strings.TrimSpace(locale))
}

// LocaleFromContext returns the locale stored in context, or fallback when
// none is set.
func LocaleFromContext(ctx context.Context, fallback string) string {
	if ctx == nil {
		return fallback
	}
	value, _ := ctx.Value(localeContextKey{}).(string)
	if value == "" {
		return fallback
	}
	return value
}
