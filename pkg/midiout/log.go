package midiout

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
)

// LogSender logs messages instead of sending them, for dry runs.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{log: logger}
}

func (s *LogSender) Send(msg midi.Message) error {
	var channel, controller, value uint8
	if msg.GetControlChange(&channel, &controller, &value) {
		s.log.Info("tx control change", "cc", controller, "value", value, "channel", channel+1)
		return nil
	}
	s.log.Info("tx", "msg", msg.String())
	return nil
}

func (s *LogSender) SendControlChange(controller uint8, value uint8, channel uint8) error {
	return s.Send(midi.ControlChange(channel-1, controller, value))
}
