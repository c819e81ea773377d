package pattern

import "fmt"

// PoolSize is the number of steps a Pool holds.
const PoolSize = 128

// Loop is a circular step sequence inside a Pool. Last is kept rather than
// the first step so both "start from the top" (Last's successor) and
// "append at the end" are O(1). Head is the play position.
type Loop struct {
	Head uint16
	Last uint16
}

// EmptyLoop returns a loop with no steps.
func EmptyLoop() Loop { return Loop{Head: StepNone, Last: StepNone} }

// Empty reports whether the loop holds no steps.
func (l Loop) Empty() bool { return l.Last == StepNone }

// Pool stores steps for any number of loops in one fixed array. Unused
// steps are chained into a free list through their Next field.
//
// Everything here uses the circular interpretation of Step.
type Pool struct {
	steps [PoolSize]Step
	free  uint16
}

// NewPool returns an initialised pool with every step free.
func NewPool() *Pool {
	p := &Pool{}
	p.Init()
	return p
}

// Init clears the pool and rebuilds the free list in index order.
func (p *Pool) Init() {
	p.steps = [PoolSize]Step{}
	p.free = StepNone
	for i := PoolSize - 1; i >= 0; i-- {
		p.release(uint16(i))
	}
}

func (p *Pool) release(i uint16) {
	p.steps[i].Next = p.free
	p.free = i
}

// Alloc takes a step off the free list. The step comes back unlinked.
func (p *Pool) Alloc() (uint16, error) {
	i := p.free
	if i == StepNone {
		return StepNone, ErrPoolExhausted
	}
	p.free = p.steps[i].Next
	p.steps[i] = Step{Next: StepNone}
	return i, nil
}

// Free returns a single step from Alloc to the free list. Only unlinked
// steps are accepted: a step that is already free, or still part of a loop,
// is refused with ErrBadIndex. Loops are released with FreeLoop.
func (p *Pool) Free(i uint16) error {
	if i >= PoolSize {
		return fmt.Errorf("free %d: %w", i, ErrBadIndex)
	}
	if p.isFree(i) {
		return fmt.Errorf("free %d: already free: %w", i, ErrBadIndex)
	}
	if p.steps[i].Next != StepNone {
		return fmt.Errorf("free %d: linked to %d: %w", i, p.steps[i].Next, ErrBadIndex)
	}
	p.release(i)
	return nil
}

func (p *Pool) isFree(i uint16) bool {
	n := 0
	for f := p.free; f != StepNone && n <= PoolSize; f = p.steps[f].Next {
		if f == i {
			return true
		}
		n++
	}
	return false
}

// FreeCount walks the free list.
func (p *Pool) FreeCount() int {
	n := 0
	for i := p.free; i != StepNone && n <= PoolSize; i = p.steps[i].Next {
		n++
	}
	return n
}

// Step returns a copy of step i.
func (p *Pool) Step(i uint16) (Step, error) {
	if i >= PoolSize {
		return Step{}, fmt.Errorf("step %d: %w", i, ErrBadIndex)
	}
	return p.steps[i], nil
}

// Append adds a step after the loop's last step, closing the cycle back to
// its first. An empty loop becomes a one-step loop linked to itself.
func (p *Pool) Append(l *Loop, event uint32, delay uint16) (uint16, error) {
	i, err := p.Alloc()
	if err != nil {
		return StepNone, err
	}
	s := &p.steps[i]
	s.Event = event
	s.Delay = delay

	if l.Empty() {
		s.Next = i
		l.Head = i
		l.Last = i
		return i, nil
	}
	if l.Last >= PoolSize {
		p.release(i)
		return StepNone, fmt.Errorf("append after %d: %w", l.Last, ErrBadIndex)
	}
	last := &p.steps[l.Last]
	s.Next = last.Next
	last.Next = i
	l.Last = i
	return i, nil
}

// FreeLoop breaks the cycle open and splices it onto the free list in one
// step, leaving l empty.
func (p *Pool) FreeLoop(l *Loop) error {
	if l.Empty() {
		return nil
	}
	if l.Last >= PoolSize {
		return fmt.Errorf("free loop at %d: %w", l.Last, ErrBadIndex)
	}
	last := &p.steps[l.Last]
	first := last.Next
	last.Next = p.free
	p.free = first
	*l = EmptyLoop()
	return nil
}

// Walk visits each step of the loop once, first to last. It stops early when
// visit returns false. A loop that does not close within PoolSize links is
// reported as ErrBadIndex.
func (p *Pool) Walk(l Loop, visit func(i uint16, s Step) bool) error {
	if l.Empty() {
		return nil
	}
	if l.Last >= PoolSize {
		return fmt.Errorf("walk from %d: %w", l.Last, ErrBadIndex)
	}
	i := p.steps[l.Last].Next
	for n := 0; n < PoolSize; n++ {
		if i >= PoolSize {
			return fmt.Errorf("walk link %d: %w", i, ErrBadIndex)
		}
		s := p.steps[i]
		if !visit(i, s) || i == l.Last {
			return nil
		}
		i = s.Next
	}
	return fmt.Errorf("loop at %d does not close: %w", l.Last, ErrBadIndex)
}

// Len counts the steps in a loop.
func (p *Pool) Len(l Loop) (int, error) {
	n := 0
	err := p.Walk(l, func(uint16, Step) bool {
		n++
		return true
	})
	return n, err
}

// Linearize copies a loop into out as a linear sequence, first step first.
// Next fields in the copy are set to StepNone. The loop is measured before
// out is written.
func (p *Pool) Linearize(l Loop, out *StepBuffer) error {
	n, err := p.Len(l)
	if err != nil {
		return err
	}
	if n > MaxPatternSize {
		return fmt.Errorf("linearize %d steps: %w", n, ErrCapacity)
	}
	out.Reset()
	return p.Walk(l, func(_ uint16, s Step) bool {
		s.Next = StepNone
		out.steps[out.n] = s
		out.n++
		return true
	})
}

// Load builds a new loop from a linear sequence. It checks that enough
// steps are free before allocating any of them.
func (p *Pool) Load(steps []Step) (Loop, error) {
	l := EmptyLoop()
	if len(steps) > p.FreeCount() {
		return l, fmt.Errorf("load %d steps: %w", len(steps), ErrPoolExhausted)
	}
	for _, s := range steps {
		if _, err := p.Append(&l, s.Event, s.Delay); err != nil {
			return l, err
		}
	}
	return l, nil
}

// Advance returns the step under the play head and moves the head to its
// successor.
func (p *Pool) Advance(l *Loop) (Step, error) {
	if l.Empty() {
		return Step{}, fmt.Errorf("advance empty loop: %w", ErrBadIndex)
	}
	if l.Head >= PoolSize {
		return Step{}, fmt.Errorf("advance from %d: %w", l.Head, ErrBadIndex)
	}
	s := p.steps[l.Head]
	l.Head = s.Next
	return s, nil
}

// Rewind puts the play head back on the first step.
func (p *Pool) Rewind(l *Loop) error {
	if l.Empty() {
		return nil
	}
	if l.Last >= PoolSize {
		return fmt.Errorf("rewind at %d: %w", l.Last, ErrBadIndex)
	}
	l.Head = p.steps[l.Last].Next
	return nil
}

// Import replaces the pool contents with a raw step array, as dumped from a
// device: steps[i] lands in slot i with its Next link unchanged. Slots past
// len(steps) become free. Every link must be StepNone or point inside the
// imported range; nothing is changed when one does not.
func (p *Pool) Import(steps []Step) error {
	if len(steps) > PoolSize {
		return fmt.Errorf("import %d steps: %w", len(steps), ErrCapacity)
	}
	for i, s := range steps {
		if s.Next != StepNone && int(s.Next) >= len(steps) {
			return fmt.Errorf("import step %d links to %d: %w", i, s.Next, ErrBadIndex)
		}
	}
	p.steps = [PoolSize]Step{}
	copy(p.steps[:], steps)
	p.free = StepNone
	for i := PoolSize - 1; i >= len(steps); i-- {
		p.release(uint16(i))
	}
	return nil
}

// LoopFrom finds the loop that passes through step head by following links
// until they come back round. Head is the first step of the result.
func (p *Pool) LoopFrom(head uint16) (Loop, error) {
	if head >= PoolSize {
		return EmptyLoop(), fmt.Errorf("loop from %d: %w", head, ErrBadIndex)
	}
	prev := head
	for n := 0; n < PoolSize; n++ {
		next := p.steps[prev].Next
		if next >= PoolSize {
			return EmptyLoop(), fmt.Errorf("loop from %d: link %d: %w", head, next, ErrBadIndex)
		}
		if next == head {
			return Loop{Head: head, Last: prev}, nil
		}
		prev = next
	}
	return EmptyLoop(), fmt.Errorf("loop from %d does not close: %w", head, ErrBadIndex)
}
