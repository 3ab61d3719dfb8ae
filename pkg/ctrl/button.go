package ctrl

import "time"

type ButtonPhase int

const (
	ButtonIdle ButtonPhase = iota
	ButtonDebouncing
	ButtonPressed
)

func (p ButtonPhase) String() string {
	switch p {
	case ButtonIdle:
		return "idle"
	case ButtonDebouncing:
		return "debouncing"
	case ButtonPressed:
		return "pressed"
	default:
		return "unknown"
	}
}

// Button is one debounced button channel. Current is the raw reading of the last
// tick, Previous the last accepted state.
type Button struct {
	Current  bool
	Previous bool
	LastEdge time.Time
}

func (b Button) Phase() ButtonPhase {
	switch {
	case b.Current != b.Previous:
		return ButtonDebouncing
	case b.Previous:
		return ButtonPressed
	default:
		return ButtonIdle
	}
}

// debounce accepts a pending transition once more than period has passed since the
// last accepted one. It reports whether the accepted transition was a press.
func (b *Button) debounce(now time.Time, period time.Duration) bool {
	if b.Current == b.Previous {
		return false
	}
	if now.Sub(b.LastEdge) <= period {
		return false
	}
	b.Previous = b.Current
	b.LastEdge = now
	return b.Current
}

// absorb accepts a pressed state without reporting it.
func (b *Button) absorb(now time.Time) {
	b.Previous = b.Current
	b.LastEdge = now
}

func (s *Surface) readButtons(now time.Time) {
	s.state.Up.Current = !s.hw.Up.Get()
	s.state.Down.Current = !s.hw.Down.Get()

	// both buttons together switch the display mode, the press is absorbed so that
	// releasing one button first does not step the controller
	if s.state.Up.Current && s.state.Down.Current {
		s.state.Up.absorb(now)
		s.state.Down.absorb(now)
		return
	}

	if s.state.Up.debounce(now, s.cfg.Debounce) {
		s.ChangeActiveCC(1)
	}
	if s.state.Down.debounce(now, s.cfg.Debounce) {
		s.ChangeActiveCC(-1)
	}
}
