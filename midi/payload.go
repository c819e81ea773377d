// Package midi gives meaning to the opaque 32-bit step payload.
//
// The payload is four bytes, read little-endian. Byte 0 is a tag:
//
//	0x00-0x0F  MIDI on port <tag>, bytes 1-3 hold the message
//	0xFE       CV: byte 1 channel, bytes 2-3 a 16-bit value
//	0xFF       sequencer bookkeeping
//
// The pattern core never looks inside a payload; this package is for the
// layers that build patterns and emit them.
package midi

import (
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

const (
	MaxPort uint8 = 0x0F
	CVTag   uint8 = 0xFE
	SeqTag  uint8 = 0xFF
)

var (
	ErrBadPort    = errors.New("midi: port out of range")
	ErrBadMessage = errors.New("midi: message does not fit a payload")
	ErrNotMIDI    = errors.New("midi: payload is not a MIDI message")
)

func bytesOf(p uint32) [4]byte {
	return [4]byte{byte(p), byte(p >> 8), byte(p >> 16), byte(p >> 24)}
}

func fromBytes(b [4]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Tag returns byte 0 of a payload.
func Tag(p uint32) uint8 { return uint8(p) }

// IsMIDI reports whether p carries a MIDI message.
func IsMIDI(p uint32) bool { return Tag(p) <= MaxPort }

// Pack stores a message of one to three bytes for the given port.
func Pack(port uint8, msg gomidi.Message) (uint32, error) {
	if port > MaxPort {
		return 0, fmt.Errorf("port %d: %w", port, ErrBadPort)
	}
	if len(msg) == 0 || len(msg) > 3 || msg[0] < 0x80 {
		return 0, fmt.Errorf("% X: %w", []byte(msg), ErrBadMessage)
	}
	var b [4]byte
	b[0] = port
	copy(b[1:], msg)
	return fromBytes(b), nil
}

// PackEvent is Pack for a decoded event.
func PackEvent(port uint8, e Event) (uint32, error) {
	return Pack(port, e.Message())
}

// Unpack returns the port and message of a MIDI payload.
func Unpack(p uint32) (uint8, gomidi.Message, error) {
	if !IsMIDI(p) {
		return 0, nil, fmt.Errorf("tag %#x: %w", Tag(p), ErrNotMIDI)
	}
	b := bytesOf(p)
	n := messageLen(b[1])
	if n == 0 {
		return 0, nil, fmt.Errorf("status %#x: %w", b[1], ErrBadMessage)
	}
	msg := make(gomidi.Message, n)
	copy(msg, b[1:1+n])
	return b[0], msg, nil
}

// messageLen is the byte count of a message starting with status, 0 for
// data bytes and SysEx which cannot live in a payload.
func messageLen(status byte) int {
	switch {
	case status < 0x80:
		return 0
	case status < 0xF0:
		switch status & 0xF0 {
		case 0xC0, 0xD0:
			return 2
		}
		return 3
	}
	switch status {
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	case 0xF0, 0xF7:
		return 0
	}
	return 1
}

// PackCV stores a control voltage value for a channel.
func PackCV(channel uint8, value uint16) uint32 {
	return uint32(CVTag) | uint32(channel)<<8 | uint32(value)<<16
}

// UnpackCV is the inverse of PackCV.
func UnpackCV(p uint32) (channel uint8, value uint16, ok bool) {
	if Tag(p) != CVTag {
		return 0, 0, false
	}
	return uint8(p >> 8), uint16(p >> 16), true
}

// Describe renders a payload for listings.
func Describe(p uint32) string {
	switch {
	case IsMIDI(p):
		port, msg, err := Unpack(p)
		if err != nil {
			return fmt.Sprintf("raw %08x", p)
		}
		return fmt.Sprintf("p%d %s", port, msg.String())
	case Tag(p) == CVTag:
		ch, v, _ := UnpackCV(p)
		return fmt.Sprintf("cv%d %d", ch, v)
	case Tag(p) == SeqTag:
		return fmt.Sprintf("seq %06x", p>>8)
	}
	return fmt.Sprintf("raw %08x", p)
}
