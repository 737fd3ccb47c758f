package board

import (
	"fmt"
	"strconv"

	apperrors "github.com/willoftheprophets/runabout/internal/platform/errors"
)

// Kind identifies a modifier variant.
type Kind string

const (
	KindButthole      Kind = "butthole"
	KindSpecialSquare Kind = "special_square"
)

// precedence orders kinds sharing a trigger square; lower wins.
var precedence = map[Kind]int{
	KindButthole:      0,
	KindSpecialSquare: 1,
}

// Modifier is a board effect triggered by landing on a square.
type Modifier interface {
	Kind() Kind
	// Trigger is the square that fires the modifier.
	Trigger() int
	ActiveWindow() Window
	// Apply returns the position after the effect.
	Apply(position int) int
}

// Butthole teleports the runabout from StartSquare to EndSquare.
type Butthole struct {
	ID          int64
	StartSquare int
	EndSquare   int
	Window      Window
}

func (b Butthole) Kind() Kind           { return KindButthole }
func (b Butthole) Trigger() int         { return b.StartSquare }
func (b Butthole) ActiveWindow() Window { return b.Window }
func (b Butthole) Apply(int) int        { return b.EndSquare }

// Validate checks both squares are on the board and the window is usable.
func (b Butthole) Validate() error {
	if err := validateSquare(b.StartSquare); err != nil {
		return err
	}
	if err := validateSquare(b.EndSquare); err != nil {
		return err
	}
	return b.Window.Validate()
}

// SpecialSquare shifts the runabout by AutoMove squares, which may be
// negative. The result is wrapped back onto the board.
type SpecialSquare struct {
	ID       int64
	Square   int
	AutoMove int
	Window   Window
}

func (s SpecialSquare) Kind() Kind           { return KindSpecialSquare }
func (s SpecialSquare) Trigger() int         { return s.Square }
func (s SpecialSquare) ActiveWindow() Window { return s.Window }
func (s SpecialSquare) Apply(position int) int {
	return Wrap(position + s.AutoMove)
}

// Validate checks the trigger square is on the board and the window is usable.
func (s SpecialSquare) Validate() error {
	if err := validateSquare(s.Square); err != nil {
		return err
	}
	return s.Window.Validate()
}

func validateSquare(square int) error {
	if OnBoard(square) {
		return nil
	}
	return apperrors.WithMetadata(
		apperrors.CodeSquareOutOfRange,
		fmt.Sprintf("square %d out of range", square),
		map[string]string{"Square": strconv.Itoa(square)},
	)
}
