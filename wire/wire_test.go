package wire

import (
	"bytes"
	"errors"
	"testing"

	"go-pattern/pattern"
)

func encodeSteps(steps []pattern.Step) []byte {
	buf := make([]byte, len(steps)*StepSize)
	for i, s := range steps {
		PutStep(buf[i*StepSize:], s)
	}
	return buf
}

func TestLayout(t *testing.T) {
	b := make([]byte, StepSize)
	PutStep(b, pattern.Step{Event: 0x04030201, Delay: 0x0605, Next: 0x0807})
	if !bytes.Equal(b, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("step bytes = %v", b)
	}

	a := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	PutAbsEvent(a, pattern.AbsEvent{Event: 0x04030201, Time: 0x0605})
	if !bytes.Equal(a, []byte{1, 2, 3, 4, 5, 6, 0, 0}) {
		t.Errorf("abs bytes = %v", a)
	}
	if ev := ReadAbsEvent(a); ev.Event != 0x04030201 || ev.Time != 0x0605 {
		t.Errorf("ReadAbsEvent = %+v", ev)
	}
}

func TestConvert(t *testing.T) {
	steps := []pattern.Step{{Event: 1, Delay: 4}, {Event: 2, Delay: 2}, {Event: 3, Delay: 0}}
	stepBuf := encodeSteps(steps)
	absBuf := make([]byte, len(steps)*AbsEventSize)

	length, err := Convert(stepBuf, len(steps), absBuf)
	if err != nil {
		t.Fatal(err)
	}
	if length != 6 {
		t.Errorf("length = %d", length)
	}
	want := []pattern.AbsEvent{{Event: 1, Time: 0}, {Event: 2, Time: 4}, {Event: 3, Time: 6}}
	for i, w := range want {
		if got := ReadAbsEvent(absBuf[i*AbsEventSize:]); got != w {
			t.Errorf("event %d = %+v, want %+v", i, got, w)
		}
	}

	inPlace := encodeSteps(steps)
	if l, err := ConvertInPlace(inPlace, len(steps)); err != nil || l != length {
		t.Fatalf("ConvertInPlace = %d, %v", l, err)
	}
	for i, w := range want {
		if s := ReadStep(inPlace[i*StepSize:]); s.Delay != w.Time || s.Event != w.Event {
			t.Errorf("in place step %d = %+v, want time %d", i, s, w.Time)
		}
	}
}

func TestAdjustAndSort(t *testing.T) {
	steps := []pattern.Step{{Event: 1, Delay: 4}, {Event: 2, Delay: 2}, {Event: 3, Delay: 0}}
	absBuf := make([]byte, len(steps)*AbsEventSize)
	length, err := Adjust(encodeSteps(steps), len(steps), -2, absBuf)
	if err != nil {
		t.Fatal(err)
	}

	var ref pattern.AbsBuffer
	if _, err := pattern.Adjust(steps, -2, &ref); err != nil {
		t.Fatal(err)
	}
	for i, w := range ref.Events() {
		if got := ReadAbsEvent(absBuf[i*AbsEventSize:]); got != w {
			t.Errorf("event %d = %+v, want %+v", i, got, w)
		}
	}

	if err := Sort(absBuf, len(steps)); err != nil {
		t.Fatal(err)
	}
	var sorted pattern.AbsBuffer
	if err := DecodeAbsEvents(absBuf, len(steps), &sorted); err != nil {
		t.Fatal(err)
	}
	if !pattern.IsSorted(sorted.Events()) {
		t.Errorf("not sorted: %+v", sorted.Events())
	}
	if p, _ := TimeOffset(4, 3, length); p != 1 {
		t.Errorf("TimeOffset = %d", p)
	}
}

func TestBoundaryChecks(t *testing.T) {
	absBuf := make([]byte, 2*AbsEventSize)
	tests := []struct {
		name string
		err  error
		call func() error
	}{
		{"nil steps", pattern.ErrNilBuffer, func() error {
			_, err := Convert(nil, 2, absBuf)
			return err
		}},
		{"nil output", pattern.ErrNilBuffer, func() error {
			_, err := Convert(make([]byte, 2*StepSize), 2, nil)
			return err
		}},
		{"short steps", ErrShortBuffer, func() error {
			_, err := ConvertInPlace(make([]byte, StepSize+3), 2)
			return err
		}},
		{"too many", pattern.ErrCapacity, func() error {
			return Sort(make([]byte, 65*AbsEventSize), 65)
		}},
		{"negative", pattern.ErrCapacity, func() error {
			return Sort(absBuf, -1)
		}},
		{"zero length", pattern.ErrZeroLength, func() error {
			_, err := Adjust(make([]byte, 2*StepSize), 2, 1, absBuf)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
		})
	}

	if _, err := Convert(nil, 0, nil); err != nil {
		t.Errorf("empty convert: %v", err)
	}
}

func TestFailedCallLeavesOutput(t *testing.T) {
	out := bytes.Repeat([]byte{0xAA}, 2*AbsEventSize)
	orig := append([]byte(nil), out...)
	if _, err := Adjust(make([]byte, 2*StepSize), 2, 5, out); err == nil {
		t.Fatal("expected error")
	}
	if !bytes.Equal(out, orig) {
		t.Error("output written before error")
	}
}

func TestDecodeLoop(t *testing.T) {
	// A pool dump larger than one pattern, holding a two-step loop 69 -> 3.
	raw := make([]pattern.Step, 70)
	raw[69] = pattern.Step{Event: 1, Delay: 4, Next: 3}
	raw[3] = pattern.Step{Event: 2, Delay: 2, Next: 69}
	buf := encodeSteps(raw)

	var out pattern.StepBuffer
	if err := DecodeLoop(buf, len(raw), 69, &out); err != nil {
		t.Fatal(err)
	}
	want := []pattern.Step{{Event: 1, Delay: 4, Next: pattern.StepNone}, {Event: 2, Delay: 2, Next: pattern.StepNone}}
	if out.Len() != len(want) {
		t.Fatalf("len %d, want %d", out.Len(), len(want))
	}
	for i, s := range out.Steps() {
		if s != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, s, want[i])
		}
	}

	// Starting mid-loop rotates the result.
	if err := DecodeLoop(buf, len(raw), 3, &out); err != nil {
		t.Fatal(err)
	}
	if out.Steps()[0].Event != 2 {
		t.Errorf("loop from 3 starts with %d", out.Steps()[0].Event)
	}
}

func TestDecodeLoopErrors(t *testing.T) {
	ring := make([]pattern.Step, pattern.MaxPatternSize+1)
	for i := range ring {
		ring[i].Next = uint16((i + 1) % len(ring))
	}
	tests := []struct {
		name string
		buf  []byte
		n    int
		head uint16
		err  error
	}{
		{"too many", make([]byte, (pattern.PoolSize+1)*StepSize), pattern.PoolSize + 1, 0, pattern.ErrCapacity},
		{"short", make([]byte, StepSize), 2, 0, ErrShortBuffer},
		{"nil", nil, 1, 0, pattern.ErrNilBuffer},
		{"head outside dump", encodeSteps([]pattern.Step{{Next: 0}}), 1, 1, pattern.ErrBadIndex},
		{"dangling link", encodeSteps([]pattern.Step{{Next: 5}}), 1, 0, pattern.ErrBadIndex},
		{"open chain", encodeSteps([]pattern.Step{{Next: 1}, {Next: pattern.StepNone}}), 2, 0, pattern.ErrBadIndex},
		{"loop too long", encodeSteps(ring), len(ring), 0, pattern.ErrCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out pattern.StepBuffer
			if err := out.Set([]pattern.Step{{Event: 77}}); err != nil {
				t.Fatal(err)
			}
			if err := DecodeLoop(tt.buf, tt.n, tt.head, &out); !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if out.Len() != 1 || out.Steps()[0].Event != 77 {
				t.Errorf("output touched: %+v", out.Steps())
			}
		})
	}
}
