package domain

import (
	"encoding/json"
	"errors"
)

// Sentinel errors surfaced through the result envelope.
var (
	// ErrNotConfigured is returned in mock mode, when no connection string is available.
	ErrNotConfigured = errors.New("database not configured")

	// ErrNoOperation is returned when a query is resolved before any operation was set.
	ErrNoOperation = errors.New("no operation configured")

	// ErrMissingPayload is returned when INSERT, UPSERT or UPDATE has no record.
	ErrMissingPayload = errors.New("operation requires a payload")

	// ErrUnfilteredMutation is returned when UPDATE or DELETE has no filter
	// and AllowUnfiltered was not set.
	ErrUnfilteredMutation = errors.New("unfiltered mutation would affect every row")

	// ErrEmptyIdentifier is returned when an identifier is empty after sanitization.
	ErrEmptyIdentifier = errors.New("identifier is empty after sanitization")

	// ErrDuplicateIdentifier is returned when two payload keys sanitize to the same column.
	ErrDuplicateIdentifier = errors.New("duplicate identifier after sanitization")

	// ErrUnknownIdentifier is returned when a schema registry rejects a table or column.
	ErrUnknownIdentifier = errors.New("unknown identifier")
)

// ErrorKind classifies where a resolution failed.
type ErrorKind string

const (
	// KindConfig means no database is configured.
	KindConfig ErrorKind = "config"
	// KindCompile means the query could not be compiled; no SQL was issued.
	KindCompile ErrorKind = "compile"
	// KindDriver means the driver or the database returned an error.
	KindDriver ErrorKind = "driver"
)

// Error is the error half of the result envelope.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewError creates an Error whose message is the cause's message.
func NewError(kind ErrorKind, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// MarshalJSON encodes the error as {"message": "..."}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string `json:"message"`
	}{e.Message})
}

// IsNotConfigured reports whether err comes from mock mode.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
