package pattern

import "fmt"

// TimeOffset moves position by offset ticks on a circular axis of the given
// length and returns the wrapped result in [0, length).
//
// Go's % keeps the sign of the dividend, so the remainder is folded back
// into range with a second modulo.
func TimeOffset(position uint16, offset int32, length uint16) (uint16, error) {
	if length == 0 {
		return 0, ErrZeroLength
	}
	l := int64(length)
	r := (int64(position) + int64(offset)) % l
	return uint16((r + l) % l), nil
}

// Shift applies TimeOffset to every event in the buffer. The relative
// spacing of events is kept; only the phase moves. Order is not restored,
// call Sort afterwards if the caller needs it.
func (b *AbsBuffer) Shift(offset int32, length uint16) error {
	if length == 0 {
		return ErrZeroLength
	}
	for i := range b.events[:b.n] {
		b.events[i].Time, _ = TimeOffset(b.events[i].Time, offset, length)
	}
	return nil
}

// Adjust converts steps into out and shifts the result by offset, wrapping
// modulo the steps' own length. It returns that length.
//
// A pattern whose delays sum to zero has no circular axis and fails with
// ErrZeroLength before out is written.
func Adjust(steps []Step, offset int32, out *AbsBuffer) (uint16, error) {
	if out == nil {
		return 0, ErrNilBuffer
	}
	if len(steps) > MaxPatternSize {
		return 0, fmt.Errorf("adjust %d steps: %w", len(steps), ErrCapacity)
	}
	length := Length(steps)
	if length == 0 {
		return 0, fmt.Errorf("adjust %d steps: %w", len(steps), ErrZeroLength)
	}

	if _, err := Convert(steps, out); err != nil {
		return 0, err
	}
	if err := out.Shift(offset, length); err != nil {
		return 0, err
	}
	return length, nil
}
