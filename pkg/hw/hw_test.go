package hw

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPin_ActiveLow(t *testing.T) {
	p := NewPin()
	assert.True(t, p.Get(), "released pin reads high")

	p.Press()
	assert.False(t, p.Get())
	assert.True(t, p.Pressed())

	p.SetPressed(false)
	assert.True(t, p.Get())
}

func TestADC_CountsReads(t *testing.T) {
	a := NewADC(100)
	assert.Equal(t, uint16(100), a.Get())
	a.SimulateValue(4095)
	assert.Equal(t, uint16(4095), a.Get())
	assert.Equal(t, 2, a.Reads())
}

func TestLEDs_IgnoresInvalidIndex(t *testing.T) {
	l := NewLEDs(7)
	l.Set(0, true)
	l.Set(6, true)
	l.Set(7, true)
	l.Set(-1, true)

	assert.Equal(t, []bool{true, false, false, false, false, false, true}, l.States())
	assert.Equal(t, 2, l.Sets())
}

func TestInputs_ChangedConcurrently(t *testing.T) {
	a := NewADC(0)
	p := NewPin()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			a.SimulateValue(uint16(i))
			p.SetPressed(i%2 == 0)
		}
	}()
	for i := 0; i < 1000; i++ {
		a.Get()
		p.Get()
	}
	wg.Wait()

	assert.Equal(t, uint16(999), a.Value())
	assert.False(t, p.Pressed())
	assert.Equal(t, 1000, a.Reads())
}
