package ctrl

import "time"

// DisplayMode selects what the LEDs show. The zero value is the error mode, which is
// never entered by a surface but handled wherever a mode is used.
type DisplayMode int

const (
	DisplayError DisplayMode = iota
	ShowNumber
	ShowValue
)

func (m DisplayMode) String() string {
	switch m {
	case ShowNumber:
		return "cc number"
	case ShowValue:
		return "cc value"
	default:
		return "error"
	}
}

func (m DisplayMode) Next() DisplayMode {
	switch m {
	case ShowNumber:
		return ShowValue
	case ShowValue:
		return ShowNumber
	default:
		return ShowNumber
	}
}

// updateMode toggles the display mode on a combined press. Further toggles are
// suppressed until both buttons were not held together for longer than the mode hold.
func (s *Surface) updateMode(now time.Time) {
	combined := s.state.Up.Current && s.state.Down.Current

	switch {
	case combined && !s.state.ModeLatched:
		s.state.Mode = s.state.Mode.Next()
		s.state.ModeLatched = true
		s.state.ModeLatchedAt = now
		s.log.Debug("display mode", "mode", s.state.Mode)
	case combined:
		s.state.ModeLatchedAt = now
	case s.state.ModeLatched && now.Sub(s.state.ModeLatchedAt) > s.cfg.ModeHold:
		s.state.ModeLatched = false
	}
}
