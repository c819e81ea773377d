package pattern

import "errors"

// Contract violations. None of these are transient: a caller that gets one
// passed bad input and retrying with the same input fails the same way.
var (
	// ErrCapacity is returned when an operation is asked to hold more
	// elements than its fixed-size buffer allows.
	ErrCapacity = errors.New("pattern: capacity exceeded")

	// ErrNilBuffer is returned when a required buffer is missing.
	ErrNilBuffer = errors.New("pattern: nil buffer")

	// ErrZeroLength is returned when a time shift is asked to wrap modulo 0.
	ErrZeroLength = errors.New("pattern: zero pattern length")

	// ErrUnderflow is returned by Heap.Pop on an empty heap.
	ErrUnderflow = errors.New("pattern: heap underflow")

	// ErrNoOrder is returned by a Heap that was never given an ordering.
	ErrNoOrder = errors.New("pattern: heap has no ordering")

	// ErrPoolExhausted is returned when the step pool has no free steps.
	ErrPoolExhausted = errors.New("pattern: step pool exhausted")

	// ErrBadIndex is returned for a step index outside the pool, or a loop
	// whose links do not close.
	ErrBadIndex = errors.New("pattern: bad step index")
)
