package ctrl

import "time"

// State is everything the surface remembers between ticks.
type State struct {
	ActiveCC    uint8
	Values      [NumControllers]uint8
	PotFiltered int
	Latched     bool

	Up   Button
	Down Button

	Mode          DisplayMode
	ModeLatched   bool
	ModeLatchedAt time.Time
}

func NewState(initialCC uint8) State {
	result := State{
		ActiveCC: initialCC,
		Mode:     ShowNumber,
	}
	for i := range result.Values {
		result.Values[i] = DefaultValue
	}
	return result
}

// ActiveValue is the stored value of the active controller.
func (s State) ActiveValue() uint8 {
	return s.Values[s.ActiveCC]
}
