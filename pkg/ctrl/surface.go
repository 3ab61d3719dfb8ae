package ctrl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Hardware bundles the inputs and outputs of the surface. LEDs are optional.
type Hardware struct {
	Poti ADC
	Up   Pin
	Down Pin
	LEDs LED
}

// Surface is the single-fader control surface. It is not safe for concurrent use,
// Tick and all other methods must be called from one goroutine.
type Surface struct {
	cfg    Config
	hw     Hardware
	sender ControlChangeSender
	log    *slog.Logger

	state State
}

func NewSurface(cfg Config, hw Hardware, sender ControlChangeSender, logger *slog.Logger) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hw.Poti == nil || hw.Up == nil || hw.Down == nil {
		return nil, errors.New("the surface needs a potentiometer and two buttons")
	}
	if sender == nil {
		return nil, errors.New("no MIDI sender configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Surface{
		cfg:    cfg,
		hw:     hw,
		sender: sender,
		log:    logger,
		state:  NewState(cfg.InitialCC),
	}, nil
}

// State returns a copy of the current state.
func (s *Surface) State() State {
	return s.state
}

func (s *Surface) Config() Config {
	return s.cfg
}

// Reconfigure replaces the configuration and keeps the state.
func (s *Surface) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot reconfigure the surface: %w", err)
	}
	if cfg.ADCBits != s.cfg.ADCBits {
		s.state.PotFiltered = rescaleRaw(s.state.PotFiltered, s.cfg.ADCBits, cfg.ADCBits)
	}
	s.cfg = cfg
	s.log.Info("surface reconfigured", "channel", cfg.Channel, "adc_bits", cfg.ADCBits, "deadband", cfg.EffectiveDeadband(), "debounce", cfg.Debounce, "mode_hold", cfg.ModeHold, "boundary", cfg.Boundary)
	return nil
}

// Tick runs one iteration: potentiometer, buttons, mode, LEDs, in that order.
func (s *Surface) Tick(now time.Time) {
	s.readPoti()
	s.readButtons(now)
	s.updateMode(now)
	s.showLEDs()
}

// Run ticks the surface every interval until the context is done. Configurations
// received from updates are applied between two ticks.
func (s *Surface) Run(ctx context.Context, interval time.Duration, updates <-chan Config) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cfg, valid := <-updates:
			if !valid {
				updates = nil
				continue
			}
			if err := s.Reconfigure(cfg); err != nil {
				s.log.Warn("ignoring configuration", "err", err)
			}
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

func (s *Surface) emit(controller, value uint8) {
	err := s.sender.SendControlChange(controller, value, s.cfg.Channel)
	if err != nil {
		s.log.Warn("cannot send control change", "cc", controller, "value", value, "channel", s.cfg.Channel, "err", err)
		return
	}
	s.log.Debug("control change", "cc", controller, "value", value, "channel", s.cfg.Channel)
}

func rescaleRaw(raw int, from, to uint) int {
	if to > from {
		return raw << (to - from)
	}
	return raw >> (from - to)
}
