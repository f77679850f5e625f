package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// STRUCTURAL PARSE ERRORS
// =============================================================================
// These are the only errors a decoder surfaces. Field-level problems
// (missing segments, bad numbers, bad dates, unmapped qualifiers) degrade to
// null/zero/raw-key defaults instead.

var (
	// ErrEmptyInput means the document had no usable lines.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoDataRows means a CSV document had a header but no data rows.
	ErrNoDataRows = errors.New("no data rows")

	// ErrUnrecoverableStructure means X12 tokenization produced no segments.
	ErrUnrecoverableStructure = errors.New("unrecoverable structure")
)

// ParseError wraps one of the sentinels above with the decoding path and a
// human-readable reason. Use errors.Is against the sentinels to classify it.
type ParseError struct {
	Kind   error
	Format Format
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Format != "" {
		msg = fmt.Sprintf("%s: %s", e.Format, msg)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

// Unwrap returns the sentinel kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// NewParseError builds a ParseError.
func NewParseError(kind error, format Format, reason string) *ParseError {
	return &ParseError{Kind: kind, Format: format, Reason: reason}
}
