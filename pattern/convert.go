package pattern

import "fmt"

// Convert turns a linear step sequence into absolute events written to out,
// one per step in input order. The first event is at tick 0 and each one
// after it sits at the sum of the delays before it. The returned value is
// the pattern length L.
//
// out is only touched once the size check has passed.
func Convert(steps []Step, out *AbsBuffer) (uint16, error) {
	if out == nil {
		return 0, ErrNilBuffer
	}
	if len(steps) > MaxPatternSize {
		return 0, fmt.Errorf("convert %d steps: %w", len(steps), ErrCapacity)
	}

	var t uint16
	for i, s := range steps {
		out.events[i] = AbsEvent{Event: s.Event, Time: t}
		t += s.Delay
	}
	out.n = len(steps)
	return t, nil
}

// ConvertInPlace is Convert without a second buffer: each Delay field is
// overwritten with the absolute time of its step. After the call the
// sequence no longer holds delays, so L is only available from the result.
func ConvertInPlace(steps []Step) (uint16, error) {
	if len(steps) > MaxPatternSize {
		return 0, fmt.Errorf("convert %d steps in place: %w", len(steps), ErrCapacity)
	}

	var t uint16
	for i := range steps {
		d := steps[i].Delay
		steps[i].Delay = t
		t += d
	}
	return t, nil
}
