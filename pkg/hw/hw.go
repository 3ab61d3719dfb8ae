// Package hw provides simulated inputs and outputs for the surface, used when the
// surface runs on a host instead of a board. Inputs may be changed from another
// goroutine while the surface reads them.
package hw

import (
	"sync"
	"sync/atomic"
)

// ADC is a simulated analog input.
type ADC struct {
	value atomic.Uint32
	reads atomic.Int64
}

func NewADC(value uint16) *ADC {
	result := new(ADC)
	result.value.Store(uint32(value))
	return result
}

func (a *ADC) Get() uint16 {
	a.reads.Add(1)
	return uint16(a.value.Load())
}

func (a *ADC) SimulateValue(value uint16) {
	a.value.Store(uint32(value))
}

func (a *ADC) Value() uint16 {
	return uint16(a.value.Load())
}

// Reads counts the calls to Get.
func (a *ADC) Reads() int {
	return int(a.reads.Load())
}

// Pin is a simulated button input with pull-up: it reads high until pressed.
type Pin struct {
	low atomic.Bool
}

func NewPin() *Pin {
	return new(Pin)
}

func (p *Pin) Get() bool {
	return !p.low.Load()
}

func (p *Pin) Press() {
	p.low.Store(true)
}

func (p *Pin) Release() {
	p.low.Store(false)
}

// SetPressed presses or releases the button.
func (p *Pin) SetPressed(pressed bool) {
	p.low.Store(pressed)
}

func (p *Pin) Pressed() bool {
	return p.low.Load()
}

// LEDs keeps the last state of each LED.
type LEDs struct {
	lock  sync.RWMutex
	state []bool
	sets  int
}

func NewLEDs(count int) *LEDs {
	return &LEDs{state: make([]bool, count)}
}

func (l *LEDs) Set(index int, on bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if index < 0 || index >= len(l.state) {
		return
	}
	l.state[index] = on
	l.sets++
}

func (l *LEDs) States() []bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	result := make([]bool, len(l.state))
	copy(result, l.state)
	return result
}

func (l *LEDs) Sets() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.sets
}
