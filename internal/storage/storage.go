package storage

import (
	"context"
	"errors"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// RollReader lists the roll ledger.
type RollReader interface {
	// ListRolls returns rolls embargoed at or before until, ascending by
	// embargo and then by insertion order.
	ListRolls(ctx context.Context, until time.Time) ([]board.Roll, error)
}

// ModifierReader lists the modifier registry.
type ModifierReader interface {
	ListButtholes(ctx context.Context) ([]board.Butthole, error)
	ListSpecialSquares(ctx context.Context) ([]board.SpecialSquare, error)
}

// RevisionReader exposes the store generation counter.
type RevisionReader interface {
	// Revision increases on every write to rolls or modifiers.
	Revision(ctx context.Context) (uint64, error)
}

// BoardReader is everything a position calculation reads.
type BoardReader interface {
	RollReader
	ModifierReader
	RevisionReader
}

// BoardWriter records rolls and modifiers. Implementations validate input
// and return the stored record with its assigned ID.
type BoardWriter interface {
	AppendRoll(ctx context.Context, roll board.Roll) (board.Roll, error)
	PutButthole(ctx context.Context, butthole board.Butthole) (board.Butthole, error)
	PutSpecialSquare(ctx context.Context, special board.SpecialSquare) (board.SpecialSquare, error)
	DeleteButthole(ctx context.Context, id int64) error
	DeleteSpecialSquare(ctx context.Context, id int64) error
}

// Batch is a set of new records. Stores assign IDs, so IDs on input are
// ignored.
type Batch struct {
	Buttholes      []board.Butthole
	SpecialSquares []board.SpecialSquare
	Rolls          []board.Roll
}

// BatchWriter writes a Batch all or nothing: on error no record of the batch
// is stored and the revision is unchanged.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch Batch) (Batch, error)
}

// Store is a full board store.
type Store interface {
	BoardReader
	BoardWriter
	BatchWriter
	Close() error
}
