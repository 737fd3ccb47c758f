package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/willoftheprophets/runabout/internal/storage"
)

// Result counts the records written by Apply.
type Result struct {
	Rolls          int
	Buttholes      int
	SpecialSquares int
}

// Apply writes b to writer as one batch. On error nothing from b is stored.
func Apply(ctx context.Context, writer storage.BatchWriter, b Board) (Result, error) {
	if writer == nil {
		return Result{}, errors.New("board writer is required")
	}
	written, err := writer.WriteBatch(ctx, storage.Batch{
		Buttholes:      b.Buttholes,
		SpecialSquares: b.SpecialSquares,
		Rolls:          b.Rolls,
	})
	if err != nil {
		return Result{}, fmt.Errorf("write fixture: %w", err)
	}
	return Result{
		Rolls:          len(written.Rolls),
		Buttholes:      len(written.Buttholes),
		SpecialSquares: len(written.SpecialSquares),
	}, nil
}
