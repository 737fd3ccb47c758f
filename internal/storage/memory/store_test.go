package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
	apperrors "github.com/willoftheprophets/runabout/internal/platform/errors"
	"github.com/willoftheprophets/runabout/internal/storage"
)

func TestListRollsFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := New()
	day := func(d int) time.Time { return time.Date(2369, time.July, d, 0, 0, 0, 0, time.UTC) }

	for _, roll := range []board.Roll{
		{Number: 3, Embargo: day(3)},
		{Number: 20, Embargo: day(1)},
		{Number: 2, Embargo: day(1)},
		{Number: 9, Embargo: day(9)},
	} {
		if _, err := store.AppendRoll(ctx, roll); err != nil {
			t.Fatalf("append roll: %v", err)
		}
	}

	rolls, err := store.ListRolls(ctx, day(5))
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	want := []int{20, 2, 3}
	if len(rolls) != len(want) {
		t.Fatalf("rolls len = %d, want %d", len(rolls), len(want))
	}
	for i, roll := range rolls {
		if roll.Number != want[i] {
			t.Fatalf("rolls[%d].number = %d, want %d", i, roll.Number, want[i])
		}
	}
}

func TestListRollsIncludesEmbargoEqualToUntil(t *testing.T) {
	ctx := context.Background()
	store := New()
	embargo := time.Date(2369, time.July, 1, 0, 0, 0, 0, time.UTC)
	if _, err := store.AppendRoll(ctx, board.Roll{Number: 4, Embargo: embargo}); err != nil {
		t.Fatalf("append roll: %v", err)
	}

	rolls, err := store.ListRolls(ctx, embargo)
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	if len(rolls) != 1 {
		t.Fatalf("rolls len = %d, want 1", len(rolls))
	}
}

func TestWritesBumpRevision(t *testing.T) {
	ctx := context.Background()
	store := New()

	revision := func() uint64 {
		t.Helper()
		value, err := store.Revision(ctx)
		if err != nil {
			t.Fatalf("revision: %v", err)
		}
		return value
	}

	if got := revision(); got != 0 {
		t.Fatalf("initial revision = %d, want 0", got)
	}
	if _, err := store.AppendRoll(ctx, board.Roll{Number: 5, Embargo: time.Now()}); err != nil {
		t.Fatalf("append roll: %v", err)
	}
	butthole, err := store.PutButthole(ctx, board.Butthole{StartSquare: 88, EndSquare: 5})
	if err != nil {
		t.Fatalf("put butthole: %v", err)
	}
	if _, err := store.PutSpecialSquare(ctx, board.SpecialSquare{Square: 24, AutoMove: 5}); err != nil {
		t.Fatalf("put special square: %v", err)
	}
	if err := store.DeleteButthole(ctx, butthole.ID); err != nil {
		t.Fatalf("delete butthole: %v", err)
	}
	if got := revision(); got != 4 {
		t.Fatalf("revision = %d, want 4", got)
	}
}

func TestPutButtholeUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	store := New()

	created, err := store.PutButthole(ctx, board.Butthole{StartSquare: 88, EndSquare: 5})
	if err != nil {
		t.Fatalf("put butthole: %v", err)
	}
	created.EndSquare = 12
	if _, err := store.PutButthole(ctx, created); err != nil {
		t.Fatalf("update butthole: %v", err)
	}

	buttholes, err := store.ListButtholes(ctx)
	if err != nil {
		t.Fatalf("list buttholes: %v", err)
	}
	if len(buttholes) != 1 || buttholes[0].EndSquare != 12 {
		t.Fatalf("buttholes = %+v, want single butthole ending on 12", buttholes)
	}

	if _, err := store.PutButthole(ctx, board.Butthole{ID: 999, StartSquare: 1, EndSquare: 2}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestReadsAreIsolatedFromCallerMutations(t *testing.T) {
	ctx := context.Background()
	store := New()
	if _, err := store.PutSpecialSquare(ctx, board.SpecialSquare{Square: 24, AutoMove: 5}); err != nil {
		t.Fatalf("put special square: %v", err)
	}

	specials, err := store.ListSpecialSquares(ctx)
	if err != nil {
		t.Fatalf("list special squares: %v", err)
	}
	specials[0].AutoMove = -50

	again, err := store.ListSpecialSquares(ctx)
	if err != nil {
		t.Fatalf("list special squares again: %v", err)
	}
	if again[0].AutoMove != 5 {
		t.Fatalf("auto move = %d, want 5", again[0].AutoMove)
	}
}

func TestWritesValidateInput(t *testing.T) {
	ctx := context.Background()
	store := New()

	if _, err := store.AppendRoll(ctx, board.Roll{Number: 0, Embargo: time.Now()}); !errors.Is(err, apperrors.New(apperrors.CodeRollNumberOutOfRange, "")) {
		t.Fatalf("error = %v, want roll number out of range", err)
	}
	if _, err := store.PutSpecialSquare(ctx, board.SpecialSquare{Square: 0}); !errors.Is(err, apperrors.New(apperrors.CodeSquareOutOfRange, "")) {
		t.Fatalf("error = %v, want square out of range", err)
	}
	if err := store.DeleteSpecialSquare(ctx, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().ListButtholes(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}
}

func TestWriteBatchStoresEverythingOrNothing(t *testing.T) {
	ctx := context.Background()
	store := New()
	july := time.Date(2369, time.July, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.WriteBatch(ctx, storage.Batch{
		Buttholes: []board.Butthole{{StartSquare: 9, EndSquare: 2}},
		Rolls:     []board.Roll{{Number: 3, Embargo: july}, {Number: 0, Embargo: july}},
	})
	if !errors.Is(err, apperrors.New(apperrors.CodeRollNumberOutOfRange, "")) {
		t.Fatalf("error = %v, want roll number out of range", err)
	}
	if revision, _ := store.Revision(ctx); revision != 0 {
		t.Fatalf("revision = %d, want 0 after rejected batch", revision)
	}
	if buttholes, _ := store.ListButtholes(ctx); len(buttholes) != 0 {
		t.Fatalf("buttholes = %d, want 0", len(buttholes))
	}

	written, err := store.WriteBatch(ctx, storage.Batch{
		Buttholes:      []board.Butthole{{ID: 77, StartSquare: 9, EndSquare: 2}},
		SpecialSquares: []board.SpecialSquare{{Square: 24, AutoMove: 5}},
		Rolls:          []board.Roll{{Number: 3, Embargo: july}, {Number: 20, Embargo: july}},
	})
	if err != nil {
		t.Fatalf("write batch: %v", err)
	}
	if written.Buttholes[0].ID == 77 {
		t.Fatal("expected store-assigned butthole id")
	}
	if revision, _ := store.Revision(ctx); revision != 4 {
		t.Fatalf("revision = %d, want 4", revision)
	}
	rolls, err := store.ListRolls(ctx, july)
	if err != nil {
		t.Fatalf("list rolls: %v", err)
	}
	if len(rolls) != 2 || rolls[0].Number != 3 || rolls[1].Number != 20 {
		t.Fatalf("rolls = %+v", rolls)
	}
}
