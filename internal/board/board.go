package board

const (
	// Size is the number of squares on the board.
	Size = 100
	// Start is the square every replay begins on.
	Start = 1
)

// Wrap maps any integer onto the ring [1, Size]. Square Size+1 is square 1
// and square 0 is square Size.
func Wrap(square int) int {
	return ((square-1)%Size+Size)%Size + 1
}

// Advance moves position forward by steps, wrapping past Size.
func Advance(position, steps int) int {
	return Wrap(position + steps)
}

// OnBoard reports whether square is a valid board square.
func OnBoard(square int) bool {
	return square >= 1 && square <= Size
}
