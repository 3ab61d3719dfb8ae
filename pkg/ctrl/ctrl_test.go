package ctrl

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/midifader/pkg/hw"
)

type controlChange struct {
	controller uint8
	value      uint8
	channel    uint8
}

type recorder struct {
	sent []controlChange
	err  error
}

func (r *recorder) SendControlChange(controller uint8, value uint8, channel uint8) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, controlChange{controller, value, channel})
	return nil
}

type testSurface struct {
	*Surface
	poti *hw.ADC
	up   *hw.Pin
	down *hw.Pin
	leds *hw.LEDs
	sent *recorder
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func newTestSurface(t *testing.T, cfg Config) *testSurface {
	t.Helper()
	result := &testSurface{
		poti: hw.NewADC(0),
		up:   hw.NewPin(),
		down: hw.NewPin(),
		leds: hw.NewLEDs(NumLEDs),
		sent: new(recorder),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	surface, err := NewSurface(cfg, Hardware{Poti: result.poti, Up: result.up, Down: result.down, LEDs: result.leds}, result.sent, logger)
	require.NoError(t, err)
	result.Surface = surface
	return result
}

func TestBoundaryPolicy_Apply(t *testing.T) {
	tt := []struct {
		desc     string
		policy   BoundaryPolicy
		cc       int
		expected uint8
	}{
		{desc: "clamp inside", policy: ClampPolicy, cc: 64, expected: 64},
		{desc: "clamp above", policy: ClampPolicy, cc: 128, expected: 127},
		{desc: "clamp below", policy: ClampPolicy, cc: -1, expected: 0},
		{desc: "clamp far above", policy: ClampPolicy, cc: 1000, expected: 127},
		{desc: "wrap inside", policy: WrapPolicy, cc: 64, expected: 64},
		{desc: "wrap above", policy: WrapPolicy, cc: 128, expected: 0},
		{desc: "wrap below", policy: WrapPolicy, cc: -1, expected: 127},
		{desc: "wrap far below", policy: WrapPolicy, cc: -130, expected: 126},
		{desc: "unknown clamps", policy: BoundaryPolicy("bounce"), cc: 200, expected: 127},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := tc.policy.Apply(tc.cc)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestParseBoundaryPolicy(t *testing.T) {
	tt := []struct {
		desc     string
		value    string
		expected BoundaryPolicy
		invalid  bool
	}{
		{desc: "empty", value: "", expected: ClampPolicy},
		{desc: "clamp", value: "clamp", expected: ClampPolicy},
		{desc: "wrap mixed case", value: " Wrap ", expected: WrapPolicy},
		{desc: "invalid", value: "bounce", invalid: true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := ParseBoundaryPolicy(tc.value)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tt := []struct {
		desc    string
		modify  func(*Config)
		invalid bool
	}{
		{desc: "defaults", modify: func(*Config) {}},
		{desc: "channel 0", modify: func(c *Config) { c.Channel = 0 }, invalid: true},
		{desc: "channel 17", modify: func(c *Config) { c.Channel = 17 }, invalid: true},
		{desc: "channel 1", modify: func(c *Config) { c.Channel = 1 }},
		{desc: "initial cc 128", modify: func(c *Config) { c.InitialCC = 128 }, invalid: true},
		{desc: "6 bit ADC", modify: func(c *Config) { c.ADCBits = 6 }, invalid: true},
		{desc: "10 bit ADC", modify: func(c *Config) { c.ADCBits = 10 }},
		{desc: "17 bit ADC", modify: func(c *Config) { c.ADCBits = 17 }, invalid: true},
		{desc: "negative deadband", modify: func(c *Config) { c.Deadband = -1 }, invalid: true},
		{desc: "negative settle reads", modify: func(c *Config) { c.SettleReads = -1 }, invalid: true},
		{desc: "negative debounce", modify: func(c *Config) { c.Debounce = -time.Millisecond }, invalid: true},
		{desc: "unknown boundary", modify: func(c *Config) { c.Boundary = "bounce" }, invalid: true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.invalid {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_EffectiveDeadband(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 32, cfg.EffectiveDeadband())

	cfg.ADCBits = 10
	assert.Equal(t, 8, cfg.EffectiveDeadband())

	cfg.Deadband = 12
	assert.Equal(t, 12, cfg.EffectiveDeadband())
}

func TestNewSurface_Defaults(t *testing.T) {
	s := newTestSurface(t, DefaultConfig())
	state := s.State()

	assert.Equal(t, uint8(20), state.ActiveCC)
	assert.Equal(t, ShowNumber, state.Mode)
	assert.False(t, state.Latched)
	for i, v := range state.Values {
		assert.Equal(t, uint8(DefaultValue), v, "value of cc %d", i)
	}
}

func TestNewSurface_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewSurface(cfg, Hardware{Poti: hw.NewADC(0), Up: hw.NewPin()}, new(recorder), nil)
	assert.Error(t, err, "missing down button")

	_, err = NewSurface(cfg, Hardware{Poti: hw.NewADC(0), Up: hw.NewPin(), Down: hw.NewPin()}, nil, nil)
	assert.Error(t, err, "missing sender")

	cfg.Channel = 0
	_, err = NewSurface(cfg, Hardware{Poti: hw.NewADC(0), Up: hw.NewPin(), Down: hw.NewPin()}, new(recorder), nil)
	assert.Error(t, err, "invalid config")
}

func TestSurface_SendErrorIsNotFatal(t *testing.T) {
	s := newTestSurface(t, DefaultConfig())
	s.sent.err = errors.New("port closed")

	s.UpdateValue(80)

	assert.Equal(t, uint8(80), s.State().ActiveValue())
	assert.Empty(t, s.sent.sent)
}
