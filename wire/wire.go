// Package wire exposes the pattern operations over raw byte buffers laid out
// like the C structs used by firmware callers:
//
//	struct pattern_step { uint32_t event; uint16_t delay; uint16_t next; }; // 8 bytes
//	struct pattern_abs  { uint32_t event; uint16_t time; };                 // 8 bytes, 2 padding
//
// Fields are little-endian. A buffer is a borrowed view plus an element
// count; it is validated in full before any byte is written and never kept
// past the call.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go-pattern/pattern"
)

const (
	StepSize     = 8
	AbsEventSize = 8
)

// ErrShortBuffer is returned when a buffer holds fewer bytes than its
// element count needs.
var ErrShortBuffer = errors.New("wire: buffer shorter than element count")

func PutStep(b []byte, s pattern.Step) {
	binary.LittleEndian.PutUint32(b[0:4], s.Event)
	binary.LittleEndian.PutUint16(b[4:6], s.Delay)
	binary.LittleEndian.PutUint16(b[6:8], s.Next)
}

func ReadStep(b []byte) pattern.Step {
	return pattern.Step{
		Event: binary.LittleEndian.Uint32(b[0:4]),
		Delay: binary.LittleEndian.Uint16(b[4:6]),
		Next:  binary.LittleEndian.Uint16(b[6:8]),
	}
}

// PutAbsEvent writes ev and zeroes the padding.
func PutAbsEvent(b []byte, ev pattern.AbsEvent) {
	binary.LittleEndian.PutUint32(b[0:4], ev.Event)
	binary.LittleEndian.PutUint16(b[4:6], ev.Time)
	b[6], b[7] = 0, 0
}

func ReadAbsEvent(b []byte) pattern.AbsEvent {
	return pattern.AbsEvent{
		Event: binary.LittleEndian.Uint32(b[0:4]),
		Time:  binary.LittleEndian.Uint16(b[4:6]),
	}
}

func check(what string, buf []byte, n, size int) error {
	return checkMax(what, buf, n, size, pattern.MaxPatternSize)
}

func checkMax(what string, buf []byte, n, size, limit int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%s: negative count %d: %w", what, n, pattern.ErrCapacity)
	case n > limit:
		return fmt.Errorf("%s: %d elements: %w", what, n, pattern.ErrCapacity)
	case n > 0 && buf == nil:
		return fmt.Errorf("%s: %w", what, pattern.ErrNilBuffer)
	case len(buf) < n*size:
		return fmt.Errorf("%s: %d bytes for %d elements: %w", what, len(buf), n, ErrShortBuffer)
	}
	return nil
}

// DecodeSteps reads n steps from buf into out.
func DecodeSteps(buf []byte, n int, out *pattern.StepBuffer) error {
	if err := check("steps", buf, n, StepSize); err != nil {
		return err
	}
	out.Reset()
	for i := 0; i < n; i++ {
		if err := out.Append(ReadStep(buf[i*StepSize:])); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLoop reads a pool dump of n steps, where Next fields index into the
// dump itself, and linearizes the loop that passes through step head into
// out. n may be up to pattern.PoolSize; the loop itself must fit in out.
func DecodeLoop(buf []byte, n int, head uint16, out *pattern.StepBuffer) error {
	if err := checkMax("pool", buf, n, StepSize, pattern.PoolSize); err != nil {
		return err
	}
	var raw [pattern.PoolSize]pattern.Step
	for i := 0; i < n; i++ {
		raw[i] = ReadStep(buf[i*StepSize:])
	}
	var pool pattern.Pool
	if err := pool.Import(raw[:n]); err != nil {
		return err
	}
	l, err := pool.LoopFrom(head)
	if err != nil {
		return err
	}
	return pool.Linearize(l, out)
}

// DecodeAbsEvents reads n absolute events from buf into out.
func DecodeAbsEvents(buf []byte, n int, out *pattern.AbsBuffer) error {
	if err := check("events", buf, n, AbsEventSize); err != nil {
		return err
	}
	out.Reset()
	for i := 0; i < n; i++ {
		if err := out.Append(ReadAbsEvent(buf[i*AbsEventSize:])); err != nil {
			return err
		}
	}
	return nil
}

// EncodeAbsEvents writes every event in evs to buf.
func EncodeAbsEvents(buf []byte, evs []pattern.AbsEvent) error {
	if err := check("events", buf, len(evs), AbsEventSize); err != nil {
		return err
	}
	for i, ev := range evs {
		PutAbsEvent(buf[i*AbsEventSize:], ev)
	}
	return nil
}

// Convert reads n steps from stepBuf and writes n absolute events to
// absBuf. It returns the pattern length.
func Convert(stepBuf []byte, n int, absBuf []byte) (uint16, error) {
	if err := check("convert output", absBuf, n, AbsEventSize); err != nil {
		return 0, err
	}
	var steps pattern.StepBuffer
	if err := DecodeSteps(stepBuf, n, &steps); err != nil {
		return 0, err
	}
	var out pattern.AbsBuffer
	length, err := pattern.Convert(steps.Steps(), &out)
	if err != nil {
		return 0, err
	}
	return length, EncodeAbsEvents(absBuf, out.Events())
}

// ConvertInPlace rewrites the delay field of each of the n steps in stepBuf
// with its absolute time.
func ConvertInPlace(stepBuf []byte, n int) (uint16, error) {
	var steps pattern.StepBuffer
	if err := DecodeSteps(stepBuf, n, &steps); err != nil {
		return 0, err
	}
	length, err := pattern.ConvertInPlace(steps.Steps())
	if err != nil {
		return 0, err
	}
	for i, s := range steps.Steps() {
		PutStep(stepBuf[i*StepSize:], s)
	}
	return length, nil
}

// TimeOffset is pattern.TimeOffset; it takes no buffers.
func TimeOffset(position uint16, offset int32, length uint16) (uint16, error) {
	return pattern.TimeOffset(position, offset, length)
}

// Adjust converts n steps from stepBuf, shifts them by offset and writes the
// events to absBuf in step order.
func Adjust(stepBuf []byte, n int, offset int32, absBuf []byte) (uint16, error) {
	if err := check("adjust output", absBuf, n, AbsEventSize); err != nil {
		return 0, err
	}
	var steps pattern.StepBuffer
	if err := DecodeSteps(stepBuf, n, &steps); err != nil {
		return 0, err
	}
	var out pattern.AbsBuffer
	length, err := pattern.Adjust(steps.Steps(), offset, &out)
	if err != nil {
		return 0, err
	}
	return length, EncodeAbsEvents(absBuf, out.Events())
}

// Sort reorders the n events in absBuf by time, in place.
func Sort(absBuf []byte, n int) error {
	var evs pattern.AbsBuffer
	if err := DecodeAbsEvents(absBuf, n, &evs); err != nil {
		return err
	}
	if err := evs.Sort(); err != nil {
		return err
	}
	return EncodeAbsEvents(absBuf, evs.Events())
}
