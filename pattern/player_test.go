package pattern

import (
	"errors"
	"testing"
)

func TestPlayer(t *testing.T) {
	steps := []Step{{Event: 1, Delay: 4}, {Event: 2, Delay: 2}, {Event: 3, Delay: 0}}
	var abs AbsBuffer
	length := MustAdjust(steps, -2, &abs)

	var p Player
	if err := p.Load(abs.Events(), length); err != nil {
		t.Fatal(err)
	}

	fired := map[uint16][]uint32{}
	var out AbsBuffer
	for i := 0; i < int(length)*2; i++ {
		phase := p.Phase()
		if err := p.Tick(&out); err != nil {
			t.Fatal(err)
		}
		if i < int(length) {
			for _, ev := range out.Events() {
				fired[phase] = append(fired[phase], ev.Event)
			}
		}
	}
	if p.Ticks() != uint32(length)*2 || p.Phase() != 0 {
		t.Errorf("ticks %d phase %d", p.Ticks(), p.Phase())
	}

	if got := fired[2]; len(got) != 1 || got[0] != 2 {
		t.Errorf("tick 2 fired %v, want [2]", got)
	}
	if got := fired[4]; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("tick 4 fired %v, want [1 3]", got)
	}
	if len(fired) != 2 {
		t.Errorf("fired on %d distinct ticks, want 2: %v", len(fired), fired)
	}
}

func TestPlayerWrapsUnreducedTimes(t *testing.T) {
	var p Player
	// Time 6 on a length-6 axis is the same tick as 0.
	if err := p.Load([]AbsEvent{{Event: 1, Time: 6}, {Event: 2, Time: 3}}, 6); err != nil {
		t.Fatal(err)
	}
	var out AbsBuffer
	if err := p.Tick(&out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 1 || out.At(0).Event != 1 {
		t.Errorf("tick 0 = %+v", out.Events())
	}
}

func TestPlayerErrors(t *testing.T) {
	var p Player
	var out AbsBuffer
	if err := p.Tick(&out); !errors.Is(err, ErrZeroLength) {
		t.Errorf("Tick before Load: %v", err)
	}
	if err := p.Load(nil, 0); !errors.Is(err, ErrZeroLength) {
		t.Errorf("Load zero length: %v", err)
	}
	if err := p.Load(make([]AbsEvent, MaxPatternSize+1), 4); !errors.Is(err, ErrCapacity) {
		t.Errorf("Load too many: %v", err)
	}
	if err := p.Load(nil, 4); err != nil {
		t.Fatal(err)
	}
	if err := p.Tick(nil); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("Tick(nil): %v", err)
	}
}
