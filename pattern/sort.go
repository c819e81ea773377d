package pattern

import "fmt"

// Sort reorders events so their times are non-decreasing, by pushing them
// all through a fixed-capacity heap and popping them back.
//
// Sort is not stable. Events sharing a tick may come out in any order; use
// SortStable when that order matters.
func Sort(events []AbsEvent) error {
	if len(events) > MaxPatternSize {
		return fmt.Errorf("sort %d events: %w", len(events), ErrCapacity)
	}

	var h Heap[AbsEvent]
	h.Init(AbsEvent.Before)
	for _, ev := range events {
		if err := h.Push(ev); err != nil {
			return err
		}
	}
	for i := range events {
		ev, err := h.Pop()
		if err != nil {
			return err
		}
		events[i] = ev
	}
	return nil
}

type indexedEvent struct {
	ev  AbsEvent
	idx uint16
}

func indexedBefore(a, b indexedEvent) bool {
	if a.ev.Time != b.ev.Time {
		return a.ev.Time < b.ev.Time
	}
	return a.idx < b.idx
}

// SortStable is Sort with the input position as a tie-breaker, so events on
// the same tick keep their original relative order.
func SortStable(events []AbsEvent) error {
	if len(events) > MaxPatternSize {
		return fmt.Errorf("sort %d events: %w", len(events), ErrCapacity)
	}

	var h Heap[indexedEvent]
	h.Init(indexedBefore)
	for i, ev := range events {
		if err := h.Push(indexedEvent{ev: ev, idx: uint16(i)}); err != nil {
			return err
		}
	}
	for i := range events {
		ie, err := h.Pop()
		if err != nil {
			return err
		}
		events[i] = ie.ev
	}
	return nil
}

// IsSorted reports whether event times are non-decreasing.
func IsSorted(events []AbsEvent) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Before(events[i-1]) {
			return false
		}
	}
	return true
}

// Sort sorts the buffer in place.
func (b *AbsBuffer) Sort() error { return Sort(b.Events()) }

// SortStable stable-sorts the buffer in place.
func (b *AbsBuffer) SortStable() error { return SortStable(b.Events()) }
