package board

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/willoftheprophets/runabout/internal/platform/errors"
)

// Roll is one dice-roll event. Rolls are immutable once recorded.
type Roll struct {
	// ID is the ledger's insertion identifier; zero when not persisted.
	ID int64
	// Number is how many squares the roll moves, 1..Size.
	Number int
	// Embargo is when the roll becomes part of history.
	Embargo time.Time
}

// Validate checks the roll is replayable.
func (r Roll) Validate() error {
	if r.Number < 1 || r.Number > Size {
		return apperrors.WithMetadata(
			apperrors.CodeRollNumberOutOfRange,
			fmt.Sprintf("roll number %d out of range", r.Number),
			map[string]string{"Number": strconv.Itoa(r.Number), "Max": strconv.Itoa(Size)},
		)
	}
	if r.Embargo.IsZero() {
		return apperrors.New(apperrors.CodeRollEmbargoMissing, "roll embargo is required")
	}
	return nil
}
