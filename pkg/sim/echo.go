package sim

import "github.com/ftl/midifader/pkg/ctrl"

type ControlChange struct {
	Controller uint8
	Value      uint8
	Channel    uint8
}

// Echo remembers the last control change and forwards it to the next sender.
type Echo struct {
	next  ctrl.ControlChangeSender
	last  ControlChange
	count int
}

func NewEcho(next ctrl.ControlChangeSender) *Echo {
	return &Echo{next: next}
}

func (e *Echo) SendControlChange(controller uint8, value uint8, channel uint8) error {
	e.last = ControlChange{Controller: controller, Value: value, Channel: channel}
	e.count++
	if e.next == nil {
		return nil
	}
	return e.next.SendControlChange(controller, value, channel)
}

func (e *Echo) Last() (ControlChange, bool) {
	return e.last, e.count > 0
}

func (e *Echo) Count() int {
	return e.count
}
