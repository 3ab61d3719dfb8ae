package ctrl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeActiveCC(t *testing.T) {
	tt := []struct {
		desc     string
		policy   BoundaryPolicy
		initial  uint8
		delta    int
		expected uint8
	}{
		{desc: "increment", policy: ClampPolicy, initial: 20, delta: 1, expected: 21},
		{desc: "decrement", policy: ClampPolicy, initial: 20, delta: -1, expected: 19},
		{desc: "clamp at 127", policy: ClampPolicy, initial: 127, delta: 1, expected: 127},
		{desc: "clamp at 0", policy: ClampPolicy, initial: 0, delta: -1, expected: 0},
		{desc: "wrap at 127", policy: WrapPolicy, initial: 127, delta: 1, expected: 0},
		{desc: "wrap at 0", policy: WrapPolicy, initial: 0, delta: -1, expected: 127},
		{desc: "wrap large delta", policy: WrapPolicy, initial: 100, delta: 200, expected: 44},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Boundary = tc.policy
			cfg.InitialCC = tc.initial
			s := newTestSurface(t, cfg)

			s.ChangeActiveCC(tc.delta)

			state := s.State()
			assert.Equal(t, tc.expected, state.ActiveCC)
			assert.True(t, state.Latched, "the selector always latches")
			assert.Empty(t, s.sent.sent, "the selector never sends")
		})
	}
}
