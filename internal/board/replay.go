package board

import (
	"slices"
	"time"
)

// Clock selects which time is tested against a modifier's active window.
type Clock int

const (
	// ClockEmbargo tests the triggering roll's own embargo, so modifiers act
	// as configured at the moment the roll landed.
	ClockEmbargo Clock = iota
	// ClockQuery tests the outer query time instead.
	ClockQuery
)

// ParseClock maps a config value to a Clock.
func ParseClock(value string) (Clock, bool) {
	switch value {
	case "", "embargo":
		return ClockEmbargo, true
	case "query":
		return ClockQuery, true
	default:
		return ClockEmbargo, false
	}
}

func (c Clock) String() string {
	if c == ClockQuery {
		return "query"
	}
	return "embargo"
}

// Options configures replay behavior.
type Options struct {
	Clock Clock
}

// Step records one roll folded into the position.
type Step struct {
	Roll Roll
	// Landed is the square reached by the roll before any modifier.
	Landed int
	// Modifier is the effect applied on Landed, or nil.
	Modifier Modifier
	// Position is where the runabout ended the step.
	Position int
}

// Replay returns the runabout's position at time at.
func Replay(rolls []Roll, registry *Registry, at time.Time, options Options) int {
	return fold(rolls, registry, at, options, nil)
}

// Trace replays like Replay and returns every step taken.
func Trace(rolls []Roll, registry *Registry, at time.Time, options Options) []Step {
	var steps []Step
	fold(rolls, registry, at, options, func(step Step) {
		steps = append(steps, step)
	})
	return steps
}

// Eligible returns a copy of the rolls embargoed at or before at, ordered by
// embargo. Rolls sharing an embargo keep their input order.
func Eligible(rolls []Roll, at time.Time) []Roll {
	ordered := make([]Roll, 0, len(rolls))
	for _, roll := range rolls {
		if roll.Embargo.After(at) {
			continue
		}
		ordered = append(ordered, roll)
	}
	slices.SortStableFunc(ordered, func(a, b Roll) int {
		return a.Embargo.Compare(b.Embargo)
	})
	return ordered
}

func fold(rolls []Roll, registry *Registry, at time.Time, options Options, visit func(Step)) int {
	position := Start
	for _, roll := range Eligible(rolls, at) {
		landed := Advance(position, roll.Number)
		position = landed

		windowTime := roll.Embargo
		if options.Clock == ClockQuery {
			windowTime = at
		}
		modifier, ok := registry.Lookup(landed, windowTime)
		if ok {
			position = modifier.Apply(landed)
		}
		if visit != nil {
			visit(Step{Roll: roll, Landed: landed, Modifier: modifier, Position: position})
		}
	}
	return position
}
