package board

import (
	"time"

	apperrors "github.com/willoftheprophets/runabout/internal/platform/errors"
)

// Window is the half-open [Start, End) range during which a modifier is
// active. A zero Start or End leaves that side unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether t falls inside the window.
func (w Window) Covers(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// Validate rejects windows that can never be active.
func (w Window) Validate() error {
	if !w.Start.IsZero() && !w.End.IsZero() && !w.End.After(w.Start) {
		return apperrors.New(apperrors.CodeWindowInverted, "window end must be after start")
	}
	return nil
}
