// Package pattern is the timing core: steps with relative delays, absolute
// tick-stamped events, circular time shifts and a bounded heap sort.
//
// Nothing in this package grows a slice or keeps state between calls. Every
// working collection is a fixed array of MaxPatternSize elements, and an
// operation that would exceed it fails before it writes anything.
package pattern

// MaxPatternSize is the capacity of every buffer and heap in the package.
const MaxPatternSize = 64

// StepNone is the "no successor" link in a circular loop. It must never be a
// valid index, so PoolSize and MaxPatternSize stay below it.
const StepNone uint16 = 0xFFFF

// Step is one event in relative form.
//
// The same record serves two layouts. Read as a linear array, Delay is the
// tick count to the following element and Next is unused. Read as a circular
// loop inside a Pool, Next is the index of the following step.
type Step struct {
	Event uint32 // opaque payload
	Delay uint16 // ticks until the next step
	Next  uint16 // next step in a loop, StepNone if unlinked
}

// AbsEvent is one event stamped with a tick position on the circular axis of
// its pattern.
type AbsEvent struct {
	Event uint32
	Time  uint16
}

// Before orders events by tick only. Payloads never take part in ordering.
func (a AbsEvent) Before(b AbsEvent) bool {
	return a.Time < b.Time
}

// Length returns the total tick span of a linear step sequence.
// The sum wraps at 16 bits; patterns longer than that are a caller error.
func Length(steps []Step) uint16 {
	var l uint16
	for _, s := range steps {
		l += s.Delay
	}
	return l
}
