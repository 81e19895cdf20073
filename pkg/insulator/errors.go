package insulator

import (
	"errors"
	"fmt"
)

// Sentinel errors for buffer construction and raw-block conversion.
var (
	// ErrInvalidRawLayout indicates a raw block declared a length that
	// exceeds its storage capacity. The buffer is not constructed.
	ErrInvalidRawLayout = errors.New("raw block declares length beyond capacity")

	// ErrNotInline indicates a raw-block conversion was requested for a
	// buffer whose content does not fit the inline representation.
	ErrNotInline = errors.New("buffer content exceeds inline capacity")

	// ErrShortBlock indicates a raw block is smaller than RawSize.
	ErrShortBlock = errors.New("raw block shorter than RawSize")
)

// RawLayoutError reports a failed reconstruction from a raw memory block.
// It records the declared length and the capacity it was validated against.
//
// Example:
//
//	_, err := insulator.FromRaw(block)
//	var layoutErr *insulator.RawLayoutError
//	if errors.As(err, &layoutErr) {
//	    log.Printf("declared %d, capacity %d", layoutErr.Len, layoutErr.Cap)
//	}
type RawLayoutError struct {
	// Len is the length the block declared.
	Len int

	// Cap is the capacity the length was validated against.
	Cap int

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *RawLayoutError) Error() string {
	return fmt.Sprintf("invalid raw layout: declared length %d exceeds capacity %d: %v", e.Len, e.Cap, e.Err)
}

// Unwrap returns the underlying error.
// This allows errors.Is() and errors.As() to work with wrapped errors.
func (e *RawLayoutError) Unwrap() error {
	return e.Err
}

// IsInvalidRawLayout returns true if the error is or wraps ErrInvalidRawLayout.
func IsInvalidRawLayout(err error) bool {
	return errors.Is(err, ErrInvalidRawLayout)
}
