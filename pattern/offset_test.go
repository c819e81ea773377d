package pattern

import (
	"errors"
	"math"
	"testing"
)

func TestTimeOffset(t *testing.T) {
	tests := []struct {
		name   string
		pos    uint16
		offset int32
		length uint16
		want   uint16
	}{
		{"forward wrap", 4, 3, 6, 1},
		{"backward wrap", 0, -1, 6, 5},
		{"identity", 3, 0, 6, 3},
		{"full cycle", 3, 6, 6, 3},
		{"negative full cycle", 3, -6, 6, 3},
		{"many cycles back", 2, -6 * 1000, 6, 2},
		{"large negative", 0, -13, 6, 5},
		{"position at length", 6, -2, 6, 4},
		{"length one", 0, 12345, 1, 0},
		{"max offset", 0, math.MaxInt32, 7, uint16(math.MaxInt32 % 7)},
		{"min offset", 0, math.MinInt32, 7, uint16(((math.MinInt32%7)+7)%7)},
		{"max length", 65534, 1, 65535, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeOffset(tt.pos, tt.offset, tt.length)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("TimeOffset(%d, %d, %d) = %d, want %d", tt.pos, tt.offset, tt.length, got, tt.want)
			}
		})
	}
}

func TestTimeOffsetProperties(t *testing.T) {
	for length := uint16(1); length <= 24; length++ {
		for p := uint16(0); p < length; p++ {
			for k := int32(-4); k <= 4; k++ {
				got, _ := TimeOffset(p, k*int32(length), length)
				if got != p {
					t.Fatalf("TimeOffset(%d, %d*%d, %d) = %d, want %d", p, k, length, length, got, p)
				}
			}
			for o := int32(-5 * int32(length)); o <= 5*int32(length); o++ {
				got, _ := TimeOffset(p, o, length)
				if got >= length {
					t.Fatalf("TimeOffset(%d, %d, %d) = %d out of range", p, o, length, got)
				}
				back, _ := TimeOffset(got, -o, length)
				if back != p {
					t.Fatalf("shift by %d then %d from %d landed on %d", o, -o, p, back)
				}
			}
		}
	}
}

func TestTimeOffsetZeroLength(t *testing.T) {
	if _, err := TimeOffset(0, 1, 0); !errors.Is(err, ErrZeroLength) {
		t.Errorf("err = %v, want ErrZeroLength", err)
	}
	var b AbsBuffer
	if err := b.Shift(1, 0); !errors.Is(err, ErrZeroLength) {
		t.Errorf("Shift err = %v, want ErrZeroLength", err)
	}
}

func TestAdjustThenSort(t *testing.T) {
	steps := []Step{
		{Event: 1, Delay: 4},
		{Event: 2, Delay: 2},
		{Event: 3, Delay: 0},
	}
	const offset = -2

	var base AbsBuffer
	length := MustConvert(steps, &base)

	var out AbsBuffer
	got, err := Adjust(steps, offset, &out)
	if err != nil {
		t.Fatal(err)
	}
	if got != length {
		t.Fatalf("length = %d, want %d", got, length)
	}
	for i, ev := range base.Events() {
		want := MustTimeOffset(ev.Time, offset, length)
		if out.At(i).Event != ev.Event || out.At(i).Time != want {
			t.Errorf("event %d = %+v, want {%d %d}", i, out.At(i), ev.Event, want)
		}
	}

	before := countEvents(out.Events())
	if err := out.Sort(); err != nil {
		t.Fatal(err)
	}
	if !IsSorted(out.Events()) {
		t.Errorf("not sorted: %+v", out.Events())
	}
	if !sameCounts(before, countEvents(out.Events())) {
		t.Errorf("sort changed contents: %+v", out.Events())
	}
	if first := out.At(0); first != (AbsEvent{Event: 2, Time: 2}) {
		t.Errorf("first = %+v, want {2 2}", first)
	}
}

func TestAdjustZeroLength(t *testing.T) {
	var out AbsBuffer
	if err := out.Set([]AbsEvent{{Event: 5, Time: 1}}); err != nil {
		t.Fatal(err)
	}
	_, err := Adjust([]Step{{Event: 1}, {Event: 2}}, 3, &out)
	if !errors.Is(err, ErrZeroLength) {
		t.Fatalf("err = %v, want ErrZeroLength", err)
	}
	if out.Len() != 1 || out.At(0).Event != 5 {
		t.Errorf("output touched: %+v", out.Events())
	}
	if _, err := Adjust(nil, 0, &out); !errors.Is(err, ErrZeroLength) {
		t.Errorf("empty pattern err = %v, want ErrZeroLength", err)
	}
}

func TestAdjustCapacity(t *testing.T) {
	steps := make([]Step, MaxPatternSize+1)
	var out AbsBuffer
	if _, err := Adjust(steps, 1, &out); !errors.Is(err, ErrCapacity) {
		t.Errorf("err = %v, want ErrCapacity", err)
	}
	if _, err := Adjust(steps[:1], 1, nil); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("err = %v, want ErrNilBuffer", err)
	}
}

func TestSingleStepRoundTrip(t *testing.T) {
	steps := []Step{{Event: 42, Delay: 1}}
	for o := int32(-100); o <= 100; o++ {
		var out AbsBuffer
		l, err := Adjust(steps, o, &out)
		if err != nil {
			t.Fatal(err)
		}
		if l != 1 || out.Len() != 1 || out.At(0) != (AbsEvent{Event: 42, Time: 0}) {
			t.Fatalf("offset %d: got %+v (L=%d)", o, out.Events(), l)
		}
	}
}

func TestShiftKeepsSpacing(t *testing.T) {
	steps := []Step{{Event: 1, Delay: 3}, {Event: 2, Delay: 5}, {Event: 3, Delay: 4}}
	var out AbsBuffer
	l, err := Adjust(steps, 7, &out)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < out.Len(); i++ {
		gap := MustTimeOffset(out.At(i).Time, -int32(out.At(i-1).Time), l)
		if gap != steps[i-1].Delay {
			t.Errorf("gap %d = %d, want %d", i, gap, steps[i-1].Delay)
		}
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrZeroLength) {
			t.Errorf("recovered %v, want ErrZeroLength", r)
		}
	}()
	MustTimeOffset(1, 1, 0)
}
