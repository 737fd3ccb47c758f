package seed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/willoftheprophets/runabout/internal/board"
	"gopkg.in/yaml.v2"
)

// Fixture is the YAML form of a board scenario.
type Fixture struct {
	Name           string           `yaml:"name"`
	Description    string           `yaml:"description"`
	// Clock is the window clock the expectations were written for:
	// embargo (default) or query.
	Clock          string           `yaml:"clock"`
	Rolls          []RollFixture    `yaml:"rolls"`
	Buttholes      []ButtholeEntry  `yaml:"buttholes"`
	SpecialSquares []SpecialEntry   `yaml:"special_squares"`
	Expect         []ExpectPosition `yaml:"expect"`
}

// RollFixture is one roll. Embargo is RFC 3339.
type RollFixture struct {
	Number  int    `yaml:"number"`
	Embargo string `yaml:"embargo"`
}

// ButtholeEntry is one butthole with an optional active window.
type ButtholeEntry struct {
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
	Active Active `yaml:"active"`
}

// SpecialEntry is one special square with an optional active window.
type SpecialEntry struct {
	Square   int    `yaml:"square"`
	AutoMove int    `yaml:"auto_move"`
	Active   Active `yaml:"active"`
}

// Active bounds a modifier. Empty sides are unbounded.
type Active struct {
	From  string `yaml:"from"`
	Until string `yaml:"until"`
}

// ExpectPosition asserts the runabout square at a query time.
type ExpectPosition struct {
	At       string `yaml:"at"`
	Position int    `yaml:"position"`
}

// Board is a fixture converted to domain values.
type Board struct {
	Rolls          []board.Roll
	Buttholes      []board.Butthole
	SpecialSquares []board.SpecialSquare
	Expect         []Expectation
	// Clock checks Expect; it does not affect how the board is served.
	Clock          board.Clock
}

// Expectation is a parsed ExpectPosition.
type Expectation struct {
	At       time.Time
	Position int
}

// Parse decodes a YAML fixture. Unknown fields are rejected.
func Parse(data []byte) (Fixture, error) {
	var fixture Fixture
	if err := yaml.UnmarshalStrict(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	fixture.Name = strings.TrimSpace(fixture.Name)
	return fixture, nil
}

// Board converts the fixture to validated domain values.
func (f Fixture) Board() (Board, error) {
	var out Board
	var errs []error

	clock, ok := board.ParseClock(strings.ToLower(strings.TrimSpace(f.Clock)))
	if !ok {
		errs = append(errs, fmt.Errorf("unknown clock %q (valid: embargo, query)", f.Clock))
	}
	out.Clock = clock

	for i, entry := range f.Rolls {
		embargo, err := parseTime(entry.Embargo)
		if err != nil {
			errs = append(errs, fmt.Errorf("roll %d embargo: %w", i, err))
			continue
		}
		roll := board.Roll{Number: entry.Number, Embargo: embargo}
		if err := roll.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("roll %d: %w", i, err))
			continue
		}
		out.Rolls = append(out.Rolls, roll)
	}
	for i, entry := range f.Buttholes {
		window, err := entry.Active.window()
		if err != nil {
			errs = append(errs, fmt.Errorf("butthole %d: %w", i, err))
			continue
		}
		butthole := board.Butthole{StartSquare: entry.Start, EndSquare: entry.End, Window: window}
		if err := butthole.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("butthole %d: %w", i, err))
			continue
		}
		out.Buttholes = append(out.Buttholes, butthole)
	}
	for i, entry := range f.SpecialSquares {
		window, err := entry.Active.window()
		if err != nil {
			errs = append(errs, fmt.Errorf("special square %d: %w", i, err))
			continue
		}
		special := board.SpecialSquare{Square: entry.Square, AutoMove: entry.AutoMove, Window: window}
		if err := special.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("special square %d: %w", i, err))
			continue
		}
		out.SpecialSquares = append(out.SpecialSquares, special)
	}
	for i, entry := range f.Expect {
		at, err := parseTime(entry.At)
		if err != nil {
			errs = append(errs, fmt.Errorf("expect %d at: %w", i, err))
			continue
		}
		if !board.OnBoard(entry.Position) {
			errs = append(errs, fmt.Errorf("expect %d: position %d is not on the board", i, entry.Position))
			continue
		}
		out.Expect = append(out.Expect, Expectation{At: at, Position: entry.Position})
	}

	if err := errors.Join(errs...); err != nil {
		return Board{}, fmt.Errorf("fixture %q: %w", f.Name, err)
	}
	return out, nil
}

// Verify replays b in memory under the fixture's own clock and checks
// every expectation.
func (b Board) Verify() error {
	options := board.Options{Clock: b.Clock}
	registry := board.NewRegistry(b.Buttholes, b.SpecialSquares)
	var errs []error
	for _, expect := range b.Expect {
		got := board.Replay(b.Rolls, registry, expect.At, options)
		if got != expect.Position {
			errs = append(errs, fmt.Errorf("position at %s = %d, want %d", expect.At.Format(time.RFC3339), got, expect.Position))
		}
	}
	return errors.Join(errs...)
}

func (a Active) window() (board.Window, error) {
	var window board.Window
	if strings.TrimSpace(a.From) != "" {
		start, err := parseTime(a.From)
		if err != nil {
			return board.Window{}, fmt.Errorf("active from: %w", err)
		}
		window.Start = start
	}
	if strings.TrimSpace(a.Until) != "" {
		end, err := parseTime(a.Until)
		if err != nil {
			return board.Window{}, fmt.Errorf("active until: %w", err)
		}
		window.End = end
	}
	return window, nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("time is required")
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
