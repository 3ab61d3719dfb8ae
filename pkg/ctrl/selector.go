package ctrl

// ChangeActiveCC moves the active controller by delta and latches the value until the
// fader catches up with the stored value of the new controller.
func (s *Surface) ChangeActiveCC(delta int) {
	s.state.ActiveCC = s.cfg.Boundary.Apply(int(s.state.ActiveCC) + delta)
	s.state.Latched = true
	s.log.Debug("active controller", "cc", s.state.ActiveCC, "value", s.state.ActiveValue(), "channel", s.cfg.Channel)
}
