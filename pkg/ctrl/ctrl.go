package ctrl

import (
	"fmt"
	"strings"
	"time"
)

const (
	NumControllers = 128
	MaxValue       = 0x7f
	DefaultValue   = 0x40
	NumLEDs        = 7
)

// ADC is the potentiometer input. Get returns a reading at the configured ADC resolution.
type ADC interface {
	Get() uint16
}

// Pin is a digital input with pull-up, so a pressed button reads false.
type Pin interface {
	Get() bool
}

type LED interface {
	Set(index int, on bool)
}

type ControlChangeSender interface {
	SendControlChange(controller uint8, value uint8, channel uint8) error
}

type BoundaryPolicy string

const (
	ClampPolicy BoundaryPolicy = "clamp"
	WrapPolicy  BoundaryPolicy = "wrap"
)

func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ClampPolicy):
		return ClampPolicy, nil
	case string(WrapPolicy):
		return WrapPolicy, nil
	default:
		return "", fmt.Errorf("%s is not a valid boundary policy, use clamp or wrap", s)
	}
}

// Apply brings cc into [0,127]. Unknown policies clamp.
func (p BoundaryPolicy) Apply(cc int) uint8 {
	if p == WrapPolicy {
		cc %= NumControllers
		if cc < 0 {
			cc += NumControllers
		}
		return uint8(cc)
	}
	return uint8(clamp(cc, 0, NumControllers-1))
}

type Config struct {
	Channel     uint8
	InitialCC   uint8
	ADCBits     uint
	Deadband    int
	SettleReads int
	Debounce    time.Duration
	ModeHold    time.Duration
	Boundary    BoundaryPolicy
}

func DefaultConfig() Config {
	return Config{
		Channel:     16,
		InitialCC:   20,
		ADCBits:     12,
		SettleReads: 1,
		Debounce:    20 * time.Millisecond,
		ModeHold:    500 * time.Millisecond,
		Boundary:    ClampPolicy,
	}
}

func (c Config) Validate() error {
	if c.Channel < 1 || c.Channel > 16 {
		return fmt.Errorf("%d is not a valid MIDI channel, use 1-16", c.Channel)
	}
	if c.InitialCC > MaxValue {
		return fmt.Errorf("%d is not a valid controller number, use 0-127", c.InitialCC)
	}
	if c.ADCBits < 7 || c.ADCBits > 16 {
		return fmt.Errorf("ADC resolution of %d bits is not supported, use 7-16", c.ADCBits)
	}
	if c.Deadband < 0 {
		return fmt.Errorf("invalid deadband %d", c.Deadband)
	}
	if c.SettleReads < 0 {
		return fmt.Errorf("invalid number of settle reads %d", c.SettleReads)
	}
	if c.Debounce < 0 || c.ModeHold < 0 {
		return fmt.Errorf("debounce (%v) and mode hold (%v) must not be negative", c.Debounce, c.ModeHold)
	}
	switch c.Boundary {
	case ClampPolicy, WrapPolicy:
	default:
		return fmt.Errorf("%s is not a valid boundary policy, use clamp or wrap", c.Boundary)
	}
	return nil
}

// ADCRange is the number of distinct raw readings.
func (c Config) ADCRange() int {
	return 1 << c.ADCBits
}

// EffectiveDeadband is one 7-bit step in raw units unless configured explicitly.
func (c Config) EffectiveDeadband() int {
	if c.Deadband > 0 {
		return c.Deadband
	}
	return c.ADCRange() / NumControllers
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
