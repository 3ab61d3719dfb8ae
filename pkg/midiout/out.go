// Package midiout delivers the messages of the surface to a MIDI transport.
package midiout

import (
	"errors"
	"log/slog"
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

var (
	ErrQueueFull = errors.New("midi output queue is full")
	ErrClosed    = errors.New("midi output is closed")
)

const queueSize = 128

// SendFunc writes one message to a transport.
type SendFunc func(midi.Message) error

// Out forwards messages to a transport from its own goroutine, so the caller never
// waits for the transport. Messages are dropped when the queue is full.
type Out struct {
	send     SendFunc
	log      *slog.Logger
	commands chan midi.Message
	done     chan struct{}
	closed   chan struct{}

	// lock orders Send against Close, nothing is queued after done is closed
	lock    sync.Mutex
	closing bool
}

func NewOut(send SendFunc, logger *slog.Logger) *Out {
	if logger == nil {
		logger = slog.Default()
	}
	result := &Out{
		send:     send,
		log:      logger,
		commands: make(chan midi.Message, queueSize),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}

	go func() {
		defer close(result.closed)
		for {
			select {
			case msg := <-result.commands:
				result.write(msg)
			case <-result.done:
				result.drain()
				return
			}
		}
	}()

	return result
}

func (o *Out) write(msg midi.Message) {
	err := o.send(msg)
	if err != nil {
		o.log.Warn("cannot send MIDI message", "msg", msg.String(), "err", err)
	}
}

func (o *Out) drain() {
	for {
		select {
		case msg := <-o.commands:
			o.write(msg)
		default:
			return
		}
	}
}

// Close sends the queued messages and stops the output.
func (o *Out) Close() {
	o.lock.Lock()
	if !o.closing {
		o.closing = true
		close(o.done)
	}
	o.lock.Unlock()
	<-o.closed
}

func (o *Out) Send(msg midi.Message) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.closing {
		return ErrClosed
	}
	select {
	case o.commands <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// SendControlChange queues a control change, channel is 1-16.
func (o *Out) SendControlChange(controller uint8, value uint8, channel uint8) error {
	return o.Send(midi.ControlChange(channel-1, controller, value))
}
