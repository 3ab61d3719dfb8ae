package midiout

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"
)

const (
	// DINBaudRate is the baud rate of a classic 5-pin MIDI connection.
	DINBaudRate = 31250
	// BridgeBaudRate is the usual rate of a serial-to-MIDI bridge on the host.
	BridgeBaudRate = 115200
)

// SerialPort writes raw MIDI bytes to a serial device.
type SerialPort struct {
	name string
	port serial.Port
}

func OpenSerial(name string, baud int) (*SerialPort, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("cannot open serial port %s at %d baud: %w", name, baud, err)
	}
	return &SerialPort{name: name, port: p}, nil
}

func (s *SerialPort) Send(msg midi.Message) error {
	_, err := s.port.Write(msg.Bytes())
	return err
}

func (s *SerialPort) String() string {
	return s.name
}

func (s *SerialPort) Close() error {
	return s.port.Close()
}
