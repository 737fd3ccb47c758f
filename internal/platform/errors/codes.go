// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roll errors
	CodeRollNumberOutOfRange Code = "ROLL_NUMBER_OUT_OF_RANGE"
	CodeRollEmbargoMissing   Code = "ROLL_EMBARGO_MISSING"

	// Modifier errors
	CodeSquareOutOfRange Code = "SQUARE_OUT_OF_RANGE"
	CodeWindowInverted   Code = "WINDOW_INVERTED"

	// Query errors
	CodeQueryTimeMissing Code = "QUERY_TIME_MISSING"
	CodeQueryTimeInvalid Code = "QUERY_TIME_INVALID"

	// Storage errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeSnapshotUnstable Code = "SNAPSHOT_UNSTABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeRollNumberOutOfRange,
		CodeRollEmbargoMissing,
		CodeSquareOutOfRange,
		CodeWindowInverted,
		CodeQueryTimeMissing,
		CodeQueryTimeInvalid:
		return codes.InvalidArgument

	case CodeNotFound:
		return codes.NotFound

	// Unavailable - the caller may retry once writers settle
	case CodeSnapshotUnstable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
