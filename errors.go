package quasar

import "errors"

// Sentinel errors for the frame protocol's fault conditions: protocol-order
// violations are unrecoverable faults, never silent no-ops.
var (
	// ErrInvalidCapacity is returned by NewStack for a non-positive initial
	// capacity.
	ErrInvalidCapacity = errors.New("quasar: initial capacity must be positive")

	// ErrEmptyStack is returned by pushMethod/popMethod when invoked on a
	// stack whose stack pointer is the empty sentinel.
	ErrEmptyStack = errors.New("quasar: operation on empty stack")

	// ErrMarkerAboveStackPointer is returned by popSegmentAbove when the
	// marker identifies a position above the current stack pointer.
	ErrMarkerAboveStackPointer = errors.New("quasar: marker is above stack pointer")

	// ErrEntryOutOfRange is returned by pushMethod for an entry label
	// outside [0, 2^14).
	ErrEntryOutOfRange = errors.New("quasar: entry label out of range")

	// ErrNumSlotsOutOfRange is returned by pushMethod for a slot count
	// outside [0, 2^16).
	ErrNumSlotsOutOfRange = errors.New("quasar: slot count out of range")
)
