// Package patfile reads and writes patterns as YAML:
//
//	name: basic beat
//	steps:
//	  - {note: 36, delay: 4}
//	  - {note: 38, velocity: 90, delay: 2}
//	  - {event: 0x000001FF, delay: 0}
//
// A step gives either a raw payload in event, or a note that is packed as
// a NoteOn for port/channel.
package patfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go-pattern/debug"
	"go-pattern/midi"
	"go-pattern/pattern"
)

const defaultVelocity = 100

var ErrNoEvent = errors.New("patfile: step has neither event nor note")

// StepSpec is one step as written in a file.
type StepSpec struct {
	Event    *uint32 `yaml:"event,omitempty"`
	Note     *uint8  `yaml:"note,omitempty"`
	Port     *uint8  `yaml:"port,omitempty"`
	Channel  uint8   `yaml:"channel,omitempty"`
	Velocity uint8   `yaml:"velocity,omitempty"`
	Delay    uint16  `yaml:"delay"`
}

// File is a parsed pattern file.
type File struct {
	Name  string     `yaml:"name,omitempty"`
	Steps []StepSpec `yaml:"steps"`
}

// Parse decodes YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("patfile: %w", err)
	}
	return &f, nil
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	debug.Log("patfile", "loaded %s: %q, %d steps", path, f.Name, len(f.Steps))
	return f, nil
}

// Payload resolves a step to its 32-bit payload. defaultPort is used for
// notes that name no port.
func (s StepSpec) Payload(defaultPort uint8) (uint32, error) {
	if s.Event != nil {
		return *s.Event, nil
	}
	if s.Note == nil {
		return 0, ErrNoEvent
	}
	port := defaultPort
	if s.Port != nil {
		port = *s.Port
	}
	vel := s.Velocity
	if vel == 0 {
		vel = defaultVelocity
	}
	return midi.PackEvent(port, midi.Event{
		Type:     midi.NoteOn,
		Channel:  s.Channel,
		Note:     *s.Note,
		Velocity: vel,
	})
}

// Steps resolves every step into out. The step count is checked against
// the buffer capacity and every payload resolved before out is written.
func (f *File) Steps(defaultPort uint8, out *pattern.StepBuffer) error {
	if len(f.Steps) > pattern.MaxPatternSize {
		return fmt.Errorf("patfile: %d steps: %w", len(f.Steps), pattern.ErrCapacity)
	}
	var tmp pattern.StepBuffer
	for i, s := range f.Steps {
		p, err := s.Payload(defaultPort)
		if err != nil {
			return fmt.Errorf("patfile: step %d: %w", i, err)
		}
		if err := tmp.Append(pattern.Step{Event: p, Delay: s.Delay, Next: pattern.StepNone}); err != nil {
			return err
		}
	}
	return out.Set(tmp.Steps())
}

// FromSteps builds a File, writing note-on payloads back as notes and
// everything else as raw events.
func FromSteps(name string, steps []pattern.Step) *File {
	f := &File{Name: name, Steps: make([]StepSpec, 0, len(steps))}
	for _, s := range steps {
		spec := StepSpec{Delay: s.Delay}
		if port, msg, err := midi.Unpack(s.Event); err == nil {
			if ev, ok := midi.EventFromMessage(msg); ok && ev.Type == midi.NoteOn {
				note := ev.Note
				spec.Note = &note
				spec.Port = &port
				spec.Channel = ev.Channel
				spec.Velocity = ev.Velocity
			}
		}
		if spec.Note == nil {
			event := s.Event
			spec.Event = &event
		}
		f.Steps = append(f.Steps, spec)
	}
	return f
}

// Marshal encodes the file as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Save writes the file to path.
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
