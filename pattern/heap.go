package pattern

import "fmt"

// Heap is a binary min-heap over a fixed array of MaxPatternSize items.
// It never grows: Push on a full heap is an error. The zero value has no
// ordering; call Init or use NewHeap before pushing.
type Heap[T any] struct {
	items [MaxPatternSize]T
	n     int
	less  func(a, b T) bool
}

// Init empties the heap and sets its ordering.
func (h *Heap[T]) Init(less func(a, b T) bool) {
	h.n = 0
	h.less = less
}

// NewHeap returns an empty heap ordered by less.
func NewHeap[T any](less func(a, b T) bool) *Heap[T] {
	h := &Heap[T]{}
	h.Init(less)
	return h
}

func (h *Heap[T]) Len() int { return h.n }
func (h *Heap[T]) Cap() int { return MaxPatternSize }

// Push inserts v.
func (h *Heap[T]) Push(v T) error {
	if h.less == nil {
		return ErrNoOrder
	}
	if h.n >= MaxPatternSize {
		return fmt.Errorf("heap push %d: %w", h.n+1, ErrCapacity)
	}
	h.items[h.n] = v
	h.up(h.n)
	h.n++
	return nil
}

// Pop removes and returns the smallest item.
func (h *Heap[T]) Pop() (T, error) {
	var zero T
	if h.less == nil {
		return zero, ErrNoOrder
	}
	if h.n == 0 {
		return zero, ErrUnderflow
	}
	top := h.items[0]
	h.n--
	h.items[0] = h.items[h.n]
	h.items[h.n] = zero
	h.down(0)
	return top, nil
}

// Peek returns the smallest item without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if h.n == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

func (h *Heap[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) down(i int) {
	for {
		smallest := i
		l, r := 2*i+1, 2*i+2
		if l < h.n && h.less(h.items[l], h.items[smallest]) {
			smallest = l
		}
		if r < h.n && h.less(h.items[r], h.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
