package ctrl

// Sample filters one raw reading. It reports false while the reading stays within
// the deadband around the last accepted one, otherwise it accepts the reading and
// returns it reduced to 7 bits.
func (s *Surface) Sample(raw int) (uint8, bool) {
	raw = clamp(raw, 0, s.cfg.ADCRange()-1)
	if abs(raw-s.state.PotFiltered) <= s.cfg.EffectiveDeadband() {
		return 0, false
	}
	s.state.PotFiltered = raw
	return uint8(raw >> (s.cfg.ADCBits - 7)), true
}

func (s *Surface) readPoti() {
	for i := 0; i < s.cfg.SettleReads; i++ {
		s.hw.Poti.Get()
	}
	value, ok := s.Sample(int(s.hw.Poti.Get()))
	if !ok {
		return
	}
	s.UpdateValue(value)
}
