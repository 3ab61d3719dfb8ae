package ctrl

import "strings"

// barStep is the value range covered by one LED of the bar graph.
const barStep = NumControllers / NumLEDs

type Pattern [NumLEDs]bool

func (p Pattern) String() string {
	var b strings.Builder
	for _, on := range p {
		if on {
			b.WriteRune('#')
		} else {
			b.WriteRune('.')
		}
	}
	return b.String()
}

// Render returns the LED pattern for the given mode: the bits of the controller
// number, or a bar graph of its value.
func Render(mode DisplayMode, cc uint8, value uint8) Pattern {
	var result Pattern
	switch mode {
	case ShowNumber:
		for i := range result {
			result[i] = cc&(1<<i) != 0
		}
	case ShowValue:
		for i := range result {
			result[i] = int(value) > i*barStep
		}
	case DisplayError:
	}
	return result
}

func (s *Surface) Render() Pattern {
	return Render(s.state.Mode, s.state.ActiveCC, s.state.ActiveValue())
}

func (s *Surface) showLEDs() {
	if s.hw.LEDs == nil {
		return
	}
	for i, on := range s.Render() {
		s.hw.LEDs.Set(i, on)
	}
}
