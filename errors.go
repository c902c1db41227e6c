package freepants

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors, detectable with errors.Is.
var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrMalformedRecord = errors.New("malformed record")
	ErrCycleDetected   = errors.New("cycle detected")
	ErrRecursionLimit  = errors.New("recursion limit exceeded")
	ErrCursorInvariant = errors.New("cursor invariant violation")
)

// AddressError reports a token which could not be resolved to an address.
type AddressError struct {
	Token string
	Value int64
}

func (e *AddressError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("invalid address %q", e.Token)
	}
	return fmt.Sprintf("invalid address %d: outside [0, %d]", e.Value, AddressCount-1)
}

func (e *AddressError) Unwrap() error { return ErrInvalidAddress }

// RecordError reports a codec record which could not be decoded.
type RecordError struct {
	Line   int
	Record string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record %d %q: %s", e.Line, e.Record, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }

// RecursionError is returned when a glyph expansion re-enters an address
// already being expanded, or nests deeper than the configured limit.
type RecursionError struct {
	Address Address
	Depth   int
	Cycle   bool
}

func (e *RecursionError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("cycle detected: %v expands itself at depth %d", e.Address, e.Depth)
	}
	return fmt.Sprintf("recursion limit exceeded expanding %v at depth %d", e.Address, e.Depth)
}

func (e *RecursionError) Unwrap() error {
	if e.Cycle {
		return ErrCycleDetected
	}
	return ErrRecursionLimit
}
