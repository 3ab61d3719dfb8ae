package ctrl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayMode_Next(t *testing.T) {
	tt := []struct {
		desc     string
		mode     DisplayMode
		expected DisplayMode
	}{
		{desc: "number to value", mode: ShowNumber, expected: ShowValue},
		{desc: "value to number", mode: ShowValue, expected: ShowNumber},
		{desc: "error resets to number", mode: DisplayError, expected: ShowNumber},
		{desc: "garbage resets to number", mode: DisplayMode(42), expected: ShowNumber},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.mode.Next())
		})
	}
}

func holdBoth(s *testSurface, from, to int) {
	s.up.Press()
	s.down.Press()
	for ms := from; ms <= to; ms += 10 {
		s.Tick(at(ms))
	}
}

func releaseBoth(s *testSurface, from, to int) {
	s.up.Release()
	s.down.Release()
	for ms := from; ms <= to; ms += 10 {
		s.Tick(at(ms))
	}
}

func TestMode_ShortCombinedPressTogglesOnce(t *testing.T) {
	s := newTestSurface(t, DefaultConfig())

	holdBoth(s, 1000, 1050)
	assert.Equal(t, ShowValue, s.State().Mode)

	releaseBoth(s, 1060, 1190)
	holdBoth(s, 1200, 1250)
	assert.Equal(t, ShowValue, s.State().Mode, "pressing again within the hold period does not toggle")
	assert.True(t, s.State().ModeLatched)

	assert.Equal(t, uint8(20), s.State().ActiveCC)
}

func TestMode_LongHoldTogglesOnce(t *testing.T) {
	s := newTestSurface(t, DefaultConfig())

	holdBoth(s, 100, 2000)

	assert.Equal(t, ShowValue, s.State().Mode)
	assert.Equal(t, uint8(20), s.State().ActiveCC)
}

func TestMode_LatchClearsAfterHoldPeriod(t *testing.T) {
	s := newTestSurface(t, DefaultConfig())

	holdBoth(s, 100, 1490)
	assert.Equal(t, at(1490), s.State().ModeLatchedAt)

	releaseBoth(s, 1500, 1990)
	assert.True(t, s.State().ModeLatched, "exactly the hold period is not enough")

	releaseBoth(s, 2000, 2000)
	assert.False(t, s.State().ModeLatched)

	holdBoth(s, 2010, 2050)
	assert.Equal(t, ShowNumber, s.State().Mode, "the second combined press toggles back")
}

func TestMode_ConfiguredHoldPeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModeHold = 100 * time.Millisecond
	s := newTestSurface(t, cfg)

	holdBoth(s, 0, 50)
	releaseBoth(s, 60, 160)
	holdBoth(s, 170, 200)

	assert.Equal(t, ShowNumber, s.State().Mode)
}
