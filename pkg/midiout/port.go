package midiout

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Port is an opened MIDI output port of the host. The driver must be registered by
// the program, e.g. by importing gitlab.com/gomidi/midi/v2/drivers/rtmididrv.
type Port struct {
	out  drivers.Out
	send func(midi.Message) error
}

// OpenPort opens the output port with the given name, or with the given number if
// the name is empty.
func OpenPort(number int, name string) (*Port, error) {
	var out drivers.Out
	var err error
	if name != "" {
		out, err = midi.FindOutPort(name)
	} else {
		out, err = midi.OutPort(number)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot find MIDI output port (number %d, name %q): %w", number, name, err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("cannot open MIDI output %s: %w", out, err)
	}

	return &Port{out: out, send: send}, nil
}

func (p *Port) Send(msg midi.Message) error {
	return p.send(msg)
}

func (p *Port) String() string {
	return p.out.String()
}

func (p *Port) Close() error {
	return p.out.Close()
}

// PortInfo describes an available output port.
type PortInfo struct {
	Number int
	Name   string
}

func ListPorts() []PortInfo {
	ports := midi.GetOutPorts()
	result := make([]PortInfo, 0, len(ports))
	for _, port := range ports {
		result = append(result, PortInfo{Number: port.Number(), Name: port.String()})
	}
	return result
}

// CloseDriver releases the host MIDI driver.
func CloseDriver() {
	midi.CloseDriver()
}
