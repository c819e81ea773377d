package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Event is a channel message in decoded form, as written in pattern files.
type Event struct {
	Type     uint8 // NoteOn, NoteOff, CC
	Channel  uint8 // 0-15
	Note     uint8 // key, or controller number for CC
	Velocity uint8 // velocity, or value for CC
}

// Message builds the wire message for e. Unknown types give nil.
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOff(e.Channel, e.Note)
	case CC:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	}
	return nil
}

// EventFromMessage decodes a note or controller message.
func EventFromMessage(msg gomidi.Message) (Event, bool) {
	var ch, a, b uint8
	switch {
	case msg.GetNoteOn(&ch, &a, &b):
		return Event{Type: NoteOn, Channel: ch, Note: a, Velocity: b}, true
	case msg.GetNoteOff(&ch, &a, &b):
		return Event{Type: NoteOff, Channel: ch, Note: a, Velocity: b}, true
	case msg.GetControlChange(&ch, &a, &b):
		return Event{Type: CC, Channel: ch, Note: a, Velocity: b}, true
	}
	return Event{}, false
}
