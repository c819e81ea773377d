package main

import (
	"fmt"
	"os"
	"strconv"

	"go-pattern/midi"
	"go-pattern/patfile"
	"go-pattern/pattern"
	"go-pattern/wire"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = encode(os.Args[2:])
	case "steps":
		err = dumpSteps(os.Args[2:])
	case "loop":
		err = dumpLoop(os.Args[2:])
	case "convert":
		err = convert(os.Args[2:])
	case "sort":
		err = sortBuf(os.Args[2:])
	default:
		usage()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Pattern buffer tool")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  encode  <pattern.yaml> <steps.bin>   - Write steps in firmware layout")
	fmt.Println("  steps   <steps.bin>                  - Dump a step buffer")
	fmt.Println("  loop    <pool.bin> <head>            - Follow a loop in a step pool dump")
	fmt.Println("  convert <steps.bin> <abs.bin> [off]  - Convert (and shift) to absolute events")
	fmt.Println("  sort    <abs.bin>                    - Sort an absolute event buffer in place")
}

func need(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func encode(args []string) error {
	if err := need(args, 2); err != nil {
		return err
	}
	f, err := patfile.Load(args[0])
	if err != nil {
		return err
	}
	var steps pattern.StepBuffer
	if err := f.Steps(0, &steps); err != nil {
		return err
	}
	buf := make([]byte, steps.Len()*wire.StepSize)
	for i, s := range steps.Steps() {
		wire.PutStep(buf[i*wire.StepSize:], s)
	}
	if err := os.WriteFile(args[1], buf, 0644); err != nil {
		return err
	}
	fmt.Printf("%d steps, L=%d, %d bytes\n", steps.Len(), steps.Length(), len(buf))
	return nil
}

func dumpSteps(args []string) error {
	if err := need(args, 1); err != nil {
		return err
	}
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var steps pattern.StepBuffer
	if err := wire.DecodeSteps(buf, len(buf)/wire.StepSize, &steps); err != nil {
		return err
	}
	for i, s := range steps.Steps() {
		next := "-"
		if s.Next != pattern.StepNone {
			next = strconv.Itoa(int(s.Next))
		}
		fmt.Printf("  %2d: delay %-5d next %-4s %s\n", i, s.Delay, next, midi.Describe(s.Event))
	}
	return nil
}

func dumpLoop(args []string) error {
	if err := need(args, 2); err != nil {
		return err
	}
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	head, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("head: %w", err)
	}
	var steps pattern.StepBuffer
	if err := wire.DecodeLoop(buf, len(buf)/wire.StepSize, uint16(head), &steps); err != nil {
		return err
	}
	var abs pattern.AbsBuffer
	length, err := pattern.Convert(steps.Steps(), &abs)
	if err != nil {
		return err
	}
	for i, ev := range abs.Events() {
		fmt.Printf("  %2d: t=%-5d delay %-5d %s\n", i, ev.Time, steps.Steps()[i].Delay, midi.Describe(ev.Event))
	}
	fmt.Printf("%d steps, L=%d\n", steps.Len(), length)
	return nil
}

func convert(args []string) error {
	if err := need(args, 2); err != nil {
		return err
	}
	stepBuf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	n := len(stepBuf) / wire.StepSize
	absBuf := make([]byte, n*wire.AbsEventSize)

	var length uint16
	if len(args) > 2 {
		off, perr := strconv.ParseInt(args[2], 10, 32)
		if perr != nil {
			return fmt.Errorf("offset: %w", perr)
		}
		length, err = wire.Adjust(stepBuf, n, int32(off), absBuf)
	} else {
		length, err = wire.Convert(stepBuf, n, absBuf)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], absBuf, 0644); err != nil {
		return err
	}
	fmt.Printf("%d events, L=%d\n", n, length)
	return nil
}

func sortBuf(args []string) error {
	if err := need(args, 1); err != nil {
		return err
	}
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	n := len(buf) / wire.AbsEventSize
	if err := wire.Sort(buf, n); err != nil {
		return err
	}
	var evs pattern.AbsBuffer
	if err := wire.DecodeAbsEvents(buf, n, &evs); err != nil {
		return err
	}
	for i, ev := range evs.Events() {
		fmt.Printf("  %2d: t=%-5d %s\n", i, ev.Time, midi.Describe(ev.Event))
	}
	return os.WriteFile(args[0], buf, 0644)
}
