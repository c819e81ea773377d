package midi

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2/smf"

	"go-pattern/debug"
	"go-pattern/pattern"
)

// ExportOptions controls how pattern ticks become file ticks.
type ExportOptions struct {
	Name       string  // track name, omitted if empty
	Resolution uint16  // file ticks per quarter note
	Clocks     uint16  // pattern ticks per quarter note (24 for MIDI clock)
	Tempo      float64 // bpm
	Repeats    int     // loop cycles written, at least 1
}

// DefaultExportOptions writes one cycle of a MIDI-clock pattern at 120bpm.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Resolution: 96,
		Clocks:     24,
		Tempo:      120,
		Repeats:    1,
	}
}

// WriteSMF writes a single-track Standard MIDI File playing the pattern.
// Times are wrapped into [0, length) and stable-sorted first, so a shifted
// buffer can be passed as is. Payloads without a MIDI tag are skipped.
func WriteSMF(w io.Writer, events []pattern.AbsEvent, length uint16, opts ExportOptions) error {
	if opts.Resolution == 0 || opts.Clocks == 0 {
		return fmt.Errorf("export: resolution %d, clocks %d", opts.Resolution, opts.Clocks)
	}
	if opts.Repeats < 1 {
		opts.Repeats = 1
	}

	var buf pattern.AbsBuffer
	if err := buf.Set(events); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := buf.Shift(0, length); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := buf.SortStable(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	scale := func(t uint64) uint64 {
		return t * uint64(opts.Resolution) / uint64(opts.Clocks)
	}

	var tr smf.Track
	if opts.Name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(opts.Name))
	}
	if opts.Tempo > 0 {
		tr.Add(0, smf.MetaTempo(opts.Tempo))
	}

	var last uint64
	skipped := 0
	for r := 0; r < opts.Repeats; r++ {
		base := uint64(r) * uint64(length)
		for _, ev := range buf.Events() {
			_, msg, err := Unpack(ev.Event)
			if err != nil {
				skipped++
				continue
			}
			at := scale(base + uint64(ev.Time))
			tr.Add(uint32(at-last), msg)
			last = at
		}
	}
	end := scale(uint64(opts.Repeats) * uint64(length))
	tr.Close(uint32(end - last))

	if skipped > 0 {
		debug.Log("export", "skipped %d non-MIDI payloads", skipped)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.Resolution)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	debug.Log("export", "wrote %d events x%d, length %d", buf.Len(), opts.Repeats, length)
	return nil
}
