// ABOUTME: Error taxonomy for the fuel record store
// ABOUTME: Sentinel errors plus typed errors carrying field and index detail

package records

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches any *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIndexOutOfRange matches any *IndexOutOfRangeError.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// InvalidInputError reports a candidate field that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IndexOutOfRangeError reports an index that does not address a current entry.
// Indices are invalidated by every mutation, so a stale index ends up here.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// Is lets errors.Is(err, ErrIndexOutOfRange) match.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
