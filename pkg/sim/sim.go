// Package sim runs the surface on simulated hardware inside a terminal UI.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ftl/midifader/pkg/ctrl"
	"github.com/ftl/midifader/pkg/hw"
	"github.com/ftl/midifader/pkg/trace"
)

const faderWidth = 32

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	ledOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f33"))
	ledOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#433"))
	latchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fa0"))
)

type Options struct {
	Control  ctrl.Config
	Interval time.Duration
	// Sender receives the control changes, it may be nil.
	Sender ctrl.ControlChangeSender
	// Mirror receives the LED states in addition to the screen, it may be nil.
	Mirror  ctrl.LED
	Updates <-chan ctrl.Config
	Record  bool
	Logger  *slog.Logger
}

type Model struct {
	surface  *ctrl.Surface
	poti     *hw.ADC
	up       *hw.Pin
	down     *hw.Pin
	leds     *hw.LEDs
	echo     *Echo
	interval time.Duration
	updates  <-chan ctrl.Config

	now       time.Time
	upUntil   time.Time
	downUntil time.Time

	record    bool
	start     time.Time
	recording []trace.Sample

	quitting bool
}

type tickMsg time.Time

type configMsg ctrl.Config

func NewModel(opts Options) (Model, error) {
	if opts.Interval <= 0 {
		return Model{}, errors.New("the tick interval must be positive")
	}
	poti := hw.NewADC(0)
	up := hw.NewPin()
	down := hw.NewPin()
	leds := hw.NewLEDs(ctrl.NumLEDs)
	echo := NewEcho(opts.Sender)

	var ledOut ctrl.LED = leds
	if opts.Mirror != nil {
		ledOut = fanout{leds, opts.Mirror}
	}

	surface, err := ctrl.NewSurface(opts.Control, ctrl.Hardware{Poti: poti, Up: up, Down: down, LEDs: ledOut}, echo, opts.Logger)
	if err != nil {
		return Model{}, err
	}

	return Model{
		surface:  surface,
		poti:     poti,
		up:       up,
		down:     down,
		leds:     leds,
		echo:     echo,
		interval: opts.Interval,
		updates:  opts.Updates,
		record:   opts.Record,
	}, nil
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func listenForConfig(updates <-chan ctrl.Config) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, valid := <-updates
		if !valid {
			return nil
		}
		return configMsg(cfg)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.interval),
		listenForConfig(m.updates),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "left":
			m.moveFader(-1)
		case "right":
			m.moveFader(1)
		case "pgdown":
			m.moveFader(-8)
		case "pgup":
			m.moveFader(8)
		case "home":
			m.poti.SimulateValue(0)
		case "end":
			m.poti.SimulateValue(uint16(m.surface.Config().ADCRange() - 1))
		case "+":
			m.upUntil = m.now.Add(m.pressDuration())
		case "-":
			m.downUntil = m.now.Add(m.pressDuration())
		case "m":
			until := m.now.Add(m.pressDuration())
			m.upUntil = until
			m.downUntil = until
		}

	case tickMsg:
		m.Tick(time.Time(msg))
		return m, tick(m.interval)

	case configMsg:
		cfg := ctrl.Config(msg)
		// keep the fader at the same 7-bit position
		position := m.position()
		if err := m.surface.Reconfigure(cfg); err == nil {
			m.poti.SimulateValue(uint16(position << (cfg.ADCBits - 7)))
		}
		return m, listenForConfig(m.updates)
	}

	return m, nil
}

// Tick releases expired button presses and runs one tick of the surface.
func (m *Model) Tick(now time.Time) {
	if m.start.IsZero() {
		m.start = now
	}
	m.now = now
	m.up.SetPressed(now.Before(m.upUntil))
	m.down.SetPressed(now.Before(m.downUntil))
	m.surface.Tick(now)
	m.recordSample(now)
}

func (m *Model) recordSample(now time.Time) {
	if !m.record {
		return
	}
	sample := trace.Sample{
		At:   now.Sub(m.start),
		Raw:  m.poti.Value(),
		Up:   m.up.Pressed(),
		Down: m.down.Pressed(),
	}
	if n := len(m.recording); n > 0 {
		last := m.recording[n-1]
		if last.Raw == sample.Raw && last.Up == sample.Up && last.Down == sample.Down {
			return
		}
	}
	m.recording = append(m.recording, sample)
}

// Recording returns the input samples recorded while the simulation ran.
func (m Model) Recording() []trace.Sample {
	return m.recording
}

func (m Model) State() ctrl.State {
	return m.surface.State()
}

// pressDuration is long enough for the press to pass the debounce filter.
func (m Model) pressDuration() time.Duration {
	return 2*m.surface.Config().Debounce + 5*m.interval
}

func (m Model) step() int {
	return 1 << (m.surface.Config().ADCBits - 7)
}

func (m Model) position() int {
	return int(m.poti.Value()) / m.step()
}

func (m *Model) moveFader(steps int) {
	position := m.position() + steps
	if position < 0 {
		position = 0
	}
	if position > ctrl.MaxValue {
		position = ctrl.MaxValue
	}
	m.poti.SimulateValue(uint16(position * m.step()))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cfg := m.surface.Config()
	state := m.surface.State()

	latched := ""
	if state.Latched {
		latched = latchStyle.Render("  latched")
	}
	header := headerStyle.Render(fmt.Sprintf("midifader  ch %2d  cc %3d  value %3d  %s", cfg.Channel, state.ActiveCC, state.ActiveValue(), state.Mode)) + latched

	var leds strings.Builder
	for _, on := range m.leds.States() {
		if on {
			leds.WriteString(ledOnStyle.Render("●"))
		} else {
			leds.WriteString(ledOffStyle.Render("○"))
		}
		leds.WriteString(" ")
	}

	filled := m.position() * faderWidth / (ctrl.MaxValue + 1)
	fader := fmt.Sprintf("fader [%s%s] %3d", strings.Repeat("=", filled), strings.Repeat(" ", faderWidth-filled), m.position())

	buttons := fmt.Sprintf("up %-10s down %-10s", state.Up.Phase(), state.Down.Phase())

	tx := "tx -"
	if last, ok := m.echo.Last(); ok {
		tx = fmt.Sprintf("tx cc %d = %d (%d sent)", last.Controller, last.Value, m.echo.Count())
	}

	help := dimStyle.Render("←/→ pgup/pgdn home/end: fader  +/-: up/down  m: mode  q: quit")

	return strings.Join([]string{
		header,
		"",
		leds.String(),
		fader,
		statusStyle.Render(buttons),
		statusStyle.Render(tx),
		"",
		help,
	}, "\n") + "\n"
}

type fanout []ctrl.LED

func (f fanout) Set(index int, on bool) {
	for _, led := range f {
		led.Set(index, on)
	}
}
