package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeRollNumberOutOfRange = "ROLL_NUMBER_OUT_OF_RANGE"
	CodeRollEmbargoMissing   = "ROLL_EMBARGO_MISSING"
	CodeSquareOutOfRange     = "SQUARE_OUT_OF_RANGE"
	CodeWindowInverted       = "WINDOW_INVERTED"
	CodeQueryTimeMissing     = "QUERY_TIME_MISSING"
	CodeQueryTimeInvalid     = "QUERY_TIME_INVALID"
	CodeNotFound             = "NOT_FOUND"
	CodeSnapshotUnstable     = "SNAPSHOT_UNSTABLE"
)

var enUSMessages = map[Code]string{
	CodeRollNumberOutOfRange: "Roll number {{.Number}} must be between 1 and {{.Max}}.",
	CodeRollEmbargoMissing:   "A roll needs an embargo time.",
	CodeSquareOutOfRange:     "Square {{.Square}} is not on the board.",
	CodeWindowInverted:       "The active window must end after it starts.",
	CodeQueryTimeMissing:     "A query time is required.",
	CodeQueryTimeInvalid:     "The query time is not a valid timestamp.",
	CodeNotFound:             "The requested record was not found.",
	CodeSnapshotUnstable:     "The board changed while it was being read. Try again.",
}
