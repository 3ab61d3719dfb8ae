package ctrl

// UpdateValue applies a new fader value to the active controller with soft takeover:
// after the active controller changed, nothing is sent until the fader passes the
// value stored for that controller.
func (s *Surface) UpdateValue(value uint8) {
	if value > MaxValue {
		value = MaxValue
	}
	active := s.state.ActiveCC

	if value == s.state.Values[active] {
		if s.state.Latched {
			s.log.Debug("fader caught up", "cc", active, "value", value)
		}
		s.state.Latched = false
		return
	}
	if s.state.Latched {
		return
	}

	s.state.Values[active] = value
	s.emit(active, value)
}
