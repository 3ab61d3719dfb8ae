package midiout

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
)

// LEDMirror forwards LED states as notes, e.g. to light the pads of a controller.
// LED i maps to note base+i on the given channel (1-16). Only changes are sent.
type LEDMirror struct {
	out     func(midi.Message) error
	log     *slog.Logger
	channel uint8
	base    uint8

	known []bool
	state []bool
}

func NewLEDMirror(out func(midi.Message) error, channel uint8, base uint8, count int, logger *slog.Logger) *LEDMirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &LEDMirror{
		out:     out,
		log:     logger,
		channel: channel,
		base:    base,
		known:   make([]bool, count),
		state:   make([]bool, count),
	}
}

func (m *LEDMirror) Set(index int, on bool) {
	if index < 0 || index >= len(m.state) {
		return
	}
	if m.known[index] && m.state[index] == on {
		return
	}

	key := m.base + uint8(index)
	var msg midi.Message
	if on {
		msg = midi.NoteOn(m.channel-1, key, 0x7f)
	} else {
		msg = midi.NoteOff(m.channel-1, key)
	}
	err := m.out(msg)
	if err != nil {
		m.log.Debug("cannot mirror LED", "led", index, "on", on, "err", err)
		return
	}
	m.known[index] = true
	m.state[index] = on
}
