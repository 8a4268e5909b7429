package ssparser

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by [Parser] and its components. Per-record errors
// (conversion, validation, column count) clear on the next retrieval, and so
// does a record abandoned at the multiline limit; an unterminated quote or
// escape at the end of the input ends the stream.
var (
	ErrConfig             = errors.New("invalid parser configuration")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrReadPastEOF        = errors.New("read past end of input")
	ErrEmptyDelimiter     = errors.New("empty delimiter")
	ErrMismatchedQuote    = errors.New("mismatched quote")
	ErrUnterminatedQuote  = errors.New("unterminated quote")
	ErrUnterminatedEscape = errors.New("unterminated escape at the end of the line")
	ErrMultilineLimit     = errors.New("multiline limit reached")
	ErrInvalidResplit     = errors.New("invalid resplit, new line must be longer than the end of the last slice")
	ErrInvalidConversion  = errors.New("invalid conversion for parameter")
	ErrValidation         = errors.New("validation error")
	ErrFailedCheck        = errors.New("failed check")
	ErrColumnCount        = errors.New("invalid number of columns")
	ErrHeaderIgnored      = errors.New("the header row is ignored within the setup, it cannot be used")
	ErrDuplicateHeader    = errors.New("header contains duplicates")
	ErrUnknownField       = errors.New("header does not contain given field")
	ErrRepeatedField      = errors.New("given field used multiple times")
	ErrEmptyMapping       = errors.New("received empty mapping")
	ErrMappingOutOfRange  = errors.New("mapping out of range")
)

// ParseError is the structured error carried by a parser in the structured
// error mode and rendered by the message mode. Lines and columns are 1-based;
// Column is zero for errors that are not tied to a single field.
type ParseError struct {
	Source string // file name, or "buffer" for in-memory input
	Line   int    // physical line number where the error occurred
	Column int    // parse-list position of the offending field
	Err    error  // underlying sentinel, possibly wrapped with detail
}

// Error returns a formatted error message with location information.
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s: parse error on line %d, column %d: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s: parse error on line %d: %v", e.Source, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *ParseError) Unwrap() error {
	return e.Err
}
