// Package memory provides a process-local board store.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
	"github.com/willoftheprophets/runabout/internal/storage"
)

var errStoreRequired = errors.New("board store is required")

// Store keeps rolls and modifiers in memory. Reads return copies so callers
// never observe later writes.
type Store struct {
	mu        sync.RWMutex
	revision  uint64
	nextID    int64
	rolls     []board.Roll
	buttholes []board.Butthole
	specials  []board.SpecialSquare
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// ListRolls returns rolls embargoed at or before until.
func (s *Store) ListRolls(ctx context.Context, until time.Time) ([]board.Roll, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errStoreRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rolls := make([]board.Roll, 0, len(s.rolls))
	for _, roll := range s.rolls {
		if roll.Embargo.After(until) {
			continue
		}
		rolls = append(rolls, roll)
	}
	// IDs are assigned in insertion order, so this matches the sqlite ordering.
	slices.SortStableFunc(rolls, func(a, b board.Roll) int {
		if c := a.Embargo.Compare(b.Embargo); c != 0 {
			return c
		}
		return compareID(a.ID, b.ID)
	})
	return rolls, nil
}

// ListButtholes returns every registered butthole.
func (s *Store) ListButtholes(ctx context.Context) ([]board.Butthole, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errStoreRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.buttholes), nil
}

// ListSpecialSquares returns every registered special square.
func (s *Store) ListSpecialSquares(ctx context.Context) ([]board.SpecialSquare, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errStoreRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.specials), nil
}

// Revision returns the write generation.
func (s *Store) Revision(ctx context.Context) (uint64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	if s == nil {
		return 0, errStoreRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision, nil
}

// AppendRoll records a roll.
func (s *Store) AppendRoll(ctx context.Context, roll board.Roll) (board.Roll, error) {
	if err := checkContext(ctx); err != nil {
		return board.Roll{}, err
	}
	if s == nil {
		return board.Roll{}, errStoreRequired
	}
	if err := roll.Validate(); err != nil {
		return board.Roll{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	roll.ID = s.nextID
	roll.Embargo = roll.Embargo.UTC()
	s.rolls = append(s.rolls, roll)
	s.revision++
	return roll, nil
}

// PutButthole inserts a butthole, or replaces the one with the same ID.
func (s *Store) PutButthole(ctx context.Context, butthole board.Butthole) (board.Butthole, error) {
	if err := checkContext(ctx); err != nil {
		return board.Butthole{}, err
	}
	if s == nil {
		return board.Butthole{}, errStoreRequired
	}
	if err := butthole.Validate(); err != nil {
		return board.Butthole{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if butthole.ID == 0 {
		s.nextID++
		butthole.ID = s.nextID
		s.buttholes = append(s.buttholes, butthole)
		s.revision++
		return butthole, nil
	}
	index := slices.IndexFunc(s.buttholes, func(b board.Butthole) bool { return b.ID == butthole.ID })
	if index < 0 {
		return board.Butthole{}, storage.ErrNotFound
	}
	s.buttholes[index] = butthole
	s.revision++
	return butthole, nil
}

// PutSpecialSquare inserts a special square, or replaces the one with the same ID.
func (s *Store) PutSpecialSquare(ctx context.Context, special board.SpecialSquare) (board.SpecialSquare, error) {
	if err := checkContext(ctx); err != nil {
		return board.SpecialSquare{}, err
	}
	if s == nil {
		return board.SpecialSquare{}, errStoreRequired
	}
	if err := special.Validate(); err != nil {
		return board.SpecialSquare{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if special.ID == 0 {
		s.nextID++
		special.ID = s.nextID
		s.specials = append(s.specials, special)
		s.revision++
		return special, nil
	}
	index := slices.IndexFunc(s.specials, func(sq board.SpecialSquare) bool { return sq.ID == special.ID })
	if index < 0 {
		return board.SpecialSquare{}, storage.ErrNotFound
	}
	s.specials[index] = special
	s.revision++
	return special, nil
}

// WriteBatch validates every record of batch, then stores them under one
// lock so readers see all of the batch or none of it.
func (s *Store) WriteBatch(ctx context.Context, batch storage.Batch) (storage.Batch, error) {
	if err := checkContext(ctx); err != nil {
		return storage.Batch{}, err
	}
	if s == nil {
		return storage.Batch{}, errStoreRequired
	}
	for _, butthole := range batch.Buttholes {
		if err := butthole.Validate(); err != nil {
			return storage.Batch{}, err
		}
	}
	for _, special := range batch.SpecialSquares {
		if err := special.Validate(); err != nil {
			return storage.Batch{}, err
		}
	}
	for _, roll := range batch.Rolls {
		if err := roll.Validate(); err != nil {
			return storage.Batch{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var written storage.Batch
	for _, butthole := range batch.Buttholes {
		s.nextID++
		butthole.ID = s.nextID
		s.buttholes = append(s.buttholes, butthole)
		written.Buttholes = append(written.Buttholes, butthole)
	}
	for _, special := range batch.SpecialSquares {
		s.nextID++
		special.ID = s.nextID
		s.specials = append(s.specials, special)
		written.SpecialSquares = append(written.SpecialSquares, special)
	}
	for _, roll := range batch.Rolls {
		s.nextID++
		roll.ID = s.nextID
		roll.Embargo = roll.Embargo.UTC()
		s.rolls = append(s.rolls, roll)
		written.Rolls = append(written.Rolls, roll)
	}
	// One bump per record, matching the per-row triggers of the sqlite store.
	s.revision += uint64(len(batch.Buttholes) + len(batch.SpecialSquares) + len(batch.Rolls))
	return written, nil
}

// DeleteButthole removes a butthole by ID.
func (s *Store) DeleteButthole(ctx context.Context, id int64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if s == nil {
		return errStoreRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.buttholes, func(b board.Butthole) bool { return b.ID == id })
	if index < 0 {
		return storage.ErrNotFound
	}
	s.buttholes = slices.Delete(s.buttholes, index, index+1)
	s.revision++
	return nil
}

// DeleteSpecialSquare removes a special square by ID.
func (s *Store) DeleteSpecialSquare(ctx context.Context, id int64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if s == nil {
		return errStoreRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.specials, func(sq board.SpecialSquare) bool { return sq.ID == id })
	if index < 0 {
		return storage.ErrNotFound
	}
	s.specials = slices.Delete(s.specials, index, index+1)
	s.revision++
	return nil
}

// Close is a no-op; it lets Store satisfy storage.Store.
func (s *Store) Close() error {
	return nil
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var _ storage.Store = (*Store)(nil)
