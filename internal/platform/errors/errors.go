package errors

import (
	"errors"

	"github.com/willoftheprophets/runabout/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the ErrorInfo domain attached to runabout statuses.
const Domain = "github.com/willoftheprophets/runabout"

// Error is a coded domain error. Message is for logs; the user-facing text
// comes from the i18n catalog, templated with Metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so callers can test against a
// bare New(code, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// New returns an error with code and log message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns an error whose catalog message is templated with
// metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap returns an error with code that keeps cause in the chain.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// GetCode returns the code of the first *Error in err's chain, or
// CodeUnknown.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// LocalizedMessage renders the catalog message for locale.
func (e *Error) LocalizedMessage(locale string) string {
	return i18n.GetCatalog(locale).Format(string(e.Code), e.Metadata)
}

// GRPCStatus lets status.FromError map the error with base-locale details.
func (e *Error) GRPCStatus() *status.Status {
	return e.status(i18n.BaseLocale)
}

// LocalizedGRPCStatus returns the error as a gRPC status carrying ErrorInfo
// and a LocalizedMessage for the closest catalog to locale.
func (e *Error) LocalizedGRPCStatus(locale string) error {
	return e.status(locale).Err()
}

func (e *Error) status(locale string) *status.Status {
	catalog := i18n.GetCatalog(locale)
	st := status.New(e.Code.GRPCCode(), e.Message)
	detailed, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  catalog.Locale(),
			Message: catalog.Format(string(e.Code), e.Metadata),
		},
	)
	if err != nil {
		return st
	}
	return detailed
}
