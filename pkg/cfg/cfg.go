package cfg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ftl/midifader/pkg/ctrl"
)

const (
	DefaultFilename   = "~/.config/midifader/midifader.yaml"
	DefaultSerialBaud = 115200
)

type Configuration struct {
	PortNumber   int    `mapstructure:"port_number"`
	PortName     string `mapstructure:"port_name"`
	SerialDevice string `mapstructure:"serial_device"`
	SerialBaud   int    `mapstructure:"serial_baud"`

	Channel     int           `mapstructure:"channel"`
	InitialCC   int           `mapstructure:"initial_cc"`
	ADCBits     int           `mapstructure:"adc_bits"`
	Deadband    int           `mapstructure:"deadband"`
	SettleReads int           `mapstructure:"settle_reads"`
	Debounce    time.Duration `mapstructure:"debounce"`
	ModeHold    time.Duration `mapstructure:"mode_hold"`
	Boundary    string        `mapstructure:"boundary"`

	TickInterval time.Duration `mapstructure:"tick_interval"`
	LEDChannel   int           `mapstructure:"led_channel"`
	LEDNoteBase  int           `mapstructure:"led_note_base"`

	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	d := ctrl.DefaultConfig()
	v.SetDefault("port_number", -1)
	v.SetDefault("port_name", "")
	v.SetDefault("serial_device", "")
	v.SetDefault("serial_baud", DefaultSerialBaud)
	v.SetDefault("channel", int(d.Channel))
	v.SetDefault("initial_cc", int(d.InitialCC))
	v.SetDefault("adc_bits", int(d.ADCBits))
	v.SetDefault("deadband", d.Deadband)
	v.SetDefault("settle_reads", d.SettleReads)
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("mode_hold", d.ModeHold)
	v.SetDefault("boundary", string(d.Boundary))
	v.SetDefault("tick_interval", time.Millisecond)
	v.SetDefault("led_channel", int(d.Channel))
	v.SetDefault("led_note_base", -1)
	v.SetDefault("debug", false)
}

func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// ReadFile reads the given configuration file on top of the defaults.
func ReadFile(filename string) (Configuration, error) {
	v := New()
	if err := readFile(v, filename); err != nil {
		return Configuration{}, err
	}
	return Load(v)
}

// Read reads a configuration in the given format (yaml, json, toml) on top of the defaults.
func Read(r io.Reader, format string) (Configuration, error) {
	v := New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return Configuration{}, err
	}
	return Load(v)
}

// Use sets up v to read filename. An empty filename selects the default file,
// which may be missing.
func Use(v *viper.Viper, filename string) error {
	if filename != "" {
		return readFile(v, filename)
	}

	filename, err := homedir.Expand(DefaultFilename)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return readFile(v, filename)
}

func readFile(v *viper.Viper, filename string) error {
	filename, err := homedir.Expand(filename)
	if err != nil {
		return err
	}
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("cannot read configuration %s: %w", filename, err)
	}
	return nil
}

// Load returns the validated configuration held by v.
func Load(v *viper.Viper) (Configuration, error) {
	var result Configuration
	if err := v.Unmarshal(&result); err != nil {
		return Configuration{}, err
	}
	if err := result.Validate(); err != nil {
		return Configuration{}, err
	}
	return result, nil
}

func (c Configuration) Validate() error {
	if c.SerialDevice != "" && c.SerialBaud <= 0 {
		return fmt.Errorf("invalid serial baud rate %d", c.SerialBaud)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("invalid tick interval %v", c.TickInterval)
	}
	if c.LEDNoteBase > 127-ctrl.NumLEDs+1 {
		return fmt.Errorf("LED note base %d leaves no room for %d LEDs", c.LEDNoteBase, ctrl.NumLEDs)
	}
	if c.LEDNoteBase >= 0 && (c.LEDChannel < 1 || c.LEDChannel > 16) {
		return fmt.Errorf("%d is not a valid LED channel, use 1-16", c.LEDChannel)
	}
	_, err := c.Control()
	return err
}

// Control returns the configuration of the surface.
func (c Configuration) Control() (ctrl.Config, error) {
	if c.Channel < 1 || c.Channel > 16 {
		return ctrl.Config{}, fmt.Errorf("%d is not a valid MIDI channel, use 1-16", c.Channel)
	}
	if c.InitialCC < 0 || c.InitialCC > ctrl.MaxValue {
		return ctrl.Config{}, fmt.Errorf("%d is not a valid controller number, use 0-127", c.InitialCC)
	}
	if c.ADCBits < 0 {
		return ctrl.Config{}, fmt.Errorf("invalid ADC resolution %d", c.ADCBits)
	}
	boundary, err := ctrl.ParseBoundaryPolicy(c.Boundary)
	if err != nil {
		return ctrl.Config{}, err
	}

	result := ctrl.Config{
		Channel:     uint8(c.Channel),
		InitialCC:   uint8(c.InitialCC),
		ADCBits:     uint(c.ADCBits),
		Deadband:    c.Deadband,
		SettleReads: c.SettleReads,
		Debounce:    c.Debounce,
		ModeHold:    c.ModeHold,
		Boundary:    boundary,
	}
	return result, result.Validate()
}

// MirrorLEDs reports if the LEDs should be mirrored as MIDI notes.
func (c Configuration) MirrorLEDs() bool {
	return c.LEDNoteBase >= 0
}

// Watch calls onChange with the new configuration whenever the configuration file
// of v changes. Bursts of file events within delay are reported once, invalid
// configurations are logged and ignored.
func Watch(v *viper.Viper, delay time.Duration, logger *slog.Logger, onChange func(Configuration)) {
	if logger == nil {
		logger = slog.Default()
	}
	debounced := debounce.New(delay)
	v.OnConfigChange(func(e fsnotify.Event) {
		c, err := Load(v)
		if err != nil {
			logger.Warn("ignoring invalid configuration", "file", e.Name, "err", err)
			return
		}
		debounced(func() {
			logger.Info("configuration changed", "file", e.Name)
			onChange(c)
		})
	})
	v.WatchConfig()
}
