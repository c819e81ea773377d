package pattern

import "fmt"

// AbsBuffer is a fixed-capacity sequence of absolute events.
// The zero value is an empty buffer ready for use.
type AbsBuffer struct {
	events [MaxPatternSize]AbsEvent
	n      int
}

// Len returns the number of events held.
func (b *AbsBuffer) Len() int { return b.n }

// Cap returns MaxPatternSize.
func (b *AbsBuffer) Cap() int { return MaxPatternSize }

// Events returns a view of the held events. The view aliases the buffer and
// is only valid until the next call that changes its length.
func (b *AbsBuffer) Events() []AbsEvent { return b.events[:b.n] }

// At returns the i-th event.
func (b *AbsBuffer) At(i int) AbsEvent { return b.events[:b.n][i] }

// Reset empties the buffer.
func (b *AbsBuffer) Reset() { b.n = 0 }

// Append adds one event at the end.
func (b *AbsBuffer) Append(ev AbsEvent) error {
	if b.n >= MaxPatternSize {
		return fmt.Errorf("append event %d: %w", b.n, ErrCapacity)
	}
	b.events[b.n] = ev
	b.n++
	return nil
}

// Set replaces the contents with a copy of evs.
func (b *AbsBuffer) Set(evs []AbsEvent) error {
	if len(evs) > MaxPatternSize {
		return fmt.Errorf("set %d events: %w", len(evs), ErrCapacity)
	}
	b.n = copy(b.events[:], evs)
	return nil
}

// StepBuffer is a fixed-capacity linear step sequence.
type StepBuffer struct {
	steps [MaxPatternSize]Step
	n     int
}

func (b *StepBuffer) Len() int      { return b.n }
func (b *StepBuffer) Cap() int      { return MaxPatternSize }
func (b *StepBuffer) Steps() []Step { return b.steps[:b.n] }
func (b *StepBuffer) Reset()        { b.n = 0 }

// Length returns the pattern length L of the held steps.
func (b *StepBuffer) Length() uint16 { return Length(b.Steps()) }

// Append adds one step at the end.
func (b *StepBuffer) Append(s Step) error {
	if b.n >= MaxPatternSize {
		return fmt.Errorf("append step %d: %w", b.n, ErrCapacity)
	}
	b.steps[b.n] = s
	b.n++
	return nil
}

// Set replaces the contents with a copy of steps.
func (b *StepBuffer) Set(steps []Step) error {
	if len(steps) > MaxPatternSize {
		return fmt.Errorf("set %d steps: %w", len(steps), ErrCapacity)
	}
	b.n = copy(b.steps[:], steps)
	return nil
}
