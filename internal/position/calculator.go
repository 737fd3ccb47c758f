package position

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
	apperrors "github.com/willoftheprophets/runabout/internal/platform/errors"
	"github.com/willoftheprophets/runabout/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/willoftheprophets/runabout/internal/position"

	defaultSnapshotAttempts = 3
)

// ErrSourceRequired indicates a missing board store.
var ErrSourceRequired = errors.New("board source is required")

// Option configures a Calculator.
type Option func(*Calculator)

// WithCache replaces the calculator cache. A nil cache disables memoization.
func WithCache(cache *Cache) Option {
	return func(c *Calculator) {
		c.cache = cache
	}
}

// WithClock selects the time tested against modifier windows.
func WithClock(clock board.Clock) Option {
	return func(c *Calculator) {
		c.options.Clock = clock
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Calculator) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithSnapshotAttempts bounds how often a read is retried while writers
// keep moving the revision.
func WithSnapshotAttempts(attempts int) Option {
	return func(c *Calculator) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// Calculator derives runabout positions from a board store.
type Calculator struct {
	source   storage.BoardReader
	cache    *Cache
	options  board.Options
	tracer   trace.Tracer
	attempts int
}

// NewCalculator creates a calculator reading from source.
func NewCalculator(source storage.BoardReader, opts ...Option) (*Calculator, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	c := &Calculator{
		source:   source,
		cache:    NewCache(DefaultMaxEntries),
		tracer:   otel.Tracer(tracerName),
		attempts: defaultSnapshotAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// snapshot is one consistent read of the ledger and registry.
type snapshot struct {
	revision uint64
	rolls    []board.Roll
	registry *board.Registry
}

// CalculatePosition returns the runabout's square at time at.
func (c *Calculator) CalculatePosition(ctx context.Context, at time.Time) (int, error) {
	ctx, span := c.tracer.Start(ctx, "position.Calculate", trace.WithAttributes(
		attribute.String("at", at.UTC().Format(time.RFC3339Nano)),
		attribute.String("clock", c.options.Clock.String()),
	))
	defer span.End()

	revision, err := c.source.Revision(ctx)
	if err != nil {
		return 0, failSpan(span, fmt.Errorf("read revision: %w", err))
	}
	if position, ok := c.cache.Get(revision, at); ok {
		span.SetAttributes(
			attribute.Bool("cache_hit", true),
			attribute.Int64("revision", int64(revision)),
			attribute.Int("position", position),
		)
		return position, nil
	}

	snap, err := c.read(ctx, at, revision)
	if err != nil {
		return 0, failSpan(span, err)
	}
	position := board.Replay(snap.rolls, snap.registry, at, c.options)
	c.cache.Put(snap.revision, at, position)

	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Int64("revision", int64(snap.revision)),
		attribute.Int("rolls", len(snap.rolls)),
		attribute.Int("modifiers", snap.registry.Len()),
		attribute.Int("position", position),
	)
	return position, nil
}

// Trace returns every replay step up to at. Traces are not cached.
func (c *Calculator) Trace(ctx context.Context, at time.Time) ([]board.Step, error) {
	ctx, span := c.tracer.Start(ctx, "position.Trace", trace.WithAttributes(
		attribute.String("at", at.UTC().Format(time.RFC3339Nano)),
	))
	defer span.End()

	revision, err := c.source.Revision(ctx)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("read revision: %w", err))
	}
	snap, err := c.read(ctx, at, revision)
	if err != nil {
		return nil, failSpan(span, err)
	}
	steps := board.Trace(snap.rolls, snap.registry, at, c.options)
	span.SetAttributes(attribute.Int("steps", len(steps)))
	return steps, nil
}

// ClearCaches drops every memoized position.
func (c *Calculator) ClearCaches() {
	c.cache.Clear()
}

// CacheStats reports memoization counters.
func (c *Calculator) CacheStats() Stats {
	return c.cache.Stats()
}

// read loads rolls and modifiers, retrying while the revision moves so no
// write is partially visible to a replay.
func (c *Calculator) read(ctx context.Context, at time.Time, revision uint64) (snapshot, error) {
	for attempt := 0; attempt < c.attempts; attempt++ {
		rolls, err := c.source.ListRolls(ctx, at)
		if err != nil {
			return snapshot{}, fmt.Errorf("list rolls: %w", err)
		}
		buttholes, err := c.source.ListButtholes(ctx)
		if err != nil {
			return snapshot{}, fmt.Errorf("list buttholes: %w", err)
		}
		specials, err := c.source.ListSpecialSquares(ctx)
		if err != nil {
			return snapshot{}, fmt.Errorf("list special squares: %w", err)
		}
		after, err := c.source.Revision(ctx)
		if err != nil {
			return snapshot{}, fmt.Errorf("read revision: %w", err)
		}
		if after == revision {
			return snapshot{
				revision: revision,
				rolls:    rolls,
				registry: board.NewRegistry(buttholes, specials),
			}, nil
		}
		revision = after
	}
	return snapshot{}, apperrors.New(apperrors.CodeSnapshotUnstable, fmt.Sprintf("board revision kept changing after %d reads", c.attempts))
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
