package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ftl/midifader/pkg/cfg"
	"github.com/ftl/midifader/pkg/ctrl"
	"github.com/ftl/midifader/pkg/midiout"
)

var version string = "develop"

var rootCmd = &cobra.Command{
	Use:               "midifader",
	Short:             "A single-fader MIDI control surface",
	Long:              "A single-fader MIDI control surface: one fader sends control changes, two buttons select the controller, seven LEDs show the controller number or its value.",
	PersistentPreRunE: loadConfiguration,
	SilenceUsage:      true,
}

var rootFlags = struct {
	configFile string
}{}

// config holds the defaults, the configuration file and the flags.
var config *viper.Viper = cfg.New()

// configuration is loaded before any command runs.
var configuration cfg.Configuration

var logger *slog.Logger = slog.Default()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.configFile, "config", "", "configuration file (default "+cfg.DefaultFilename+")")
	flags.Int("portNumber", -1, "number of the MIDI output port (use list to find out the available ports)")
	flags.String("portName", "", "name of the MIDI output port (use list to find out the available ports)")
	flags.String("serial", "", "serial device for MIDI output, instead of a MIDI port")
	flags.Int("baud", cfg.DefaultSerialBaud, fmt.Sprintf("baud rate of the serial device (%d for a DIN connection)", midiout.DINBaudRate))
	flags.Int("channel", int(ctrl.DefaultConfig().Channel), "MIDI channel of the control changes (1-16)")
	flags.String("boundary", string(ctrl.DefaultConfig().Boundary), "what happens at the first and last controller: clamp or wrap")
	flags.Bool("debug", false, "log every control change")

	bindFlag("port_number", "portNumber")
	bindFlag("port_name", "portName")
	bindFlag("serial_device", "serial")
	bindFlag("serial_baud", "baud")
	bindFlag("channel", "channel")
	bindFlag("boundary", "boundary")
	bindFlag("debug", "debug")
}

func bindFlag(key string, flag string) {
	err := config.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		panic(err)
	}
}

func loadConfiguration(cmd *cobra.Command, _ []string) error {
	err := cfg.Use(config, rootFlags.configFile)
	if err != nil {
		return err
	}
	configuration, err = cfg.Load(config)
	if err != nil {
		return err
	}
	initLogger(os.Stderr, configuration.Debug)
	logger.Debug("midifader", "version", version, "command", cmd.Name(), "config", config.ConfigFileUsed())
	return nil
}

// initLogger configures the shared logger and makes it the default logger.
func initLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// sink is the MIDI output of the surface.
type sink struct {
	*midiout.Out
	transport io.Closer
	leds      ctrl.LED
}

func (s *sink) Close() {
	s.Out.Close()
	if s.transport == nil {
		return
	}
	if err := s.transport.Close(); err != nil {
		logger.Warn("cannot close MIDI output", "err", err)
	}
}

// openSink opens the configured MIDI output: a serial device, a MIDI port, or the
// log if neither is configured.
func openSink(c cfg.Configuration) (*sink, error) {
	var send midiout.SendFunc
	var transport io.Closer
	switch {
	case c.SerialDevice != "":
		port, err := midiout.OpenSerial(c.SerialDevice, c.SerialBaud)
		if err != nil {
			return nil, err
		}
		logger.Info("opened serial MIDI output", "device", port, "baud", c.SerialBaud)
		send, transport = port.Send, port
	case c.PortName != "" || c.PortNumber >= 0:
		port, err := midiout.OpenPort(c.PortNumber, c.PortName)
		if err != nil {
			return nil, err
		}
		logger.Info("opened MIDI output", "port", port)
		send, transport = port.Send, port
	default:
		logger.Info("no MIDI output configured, logging the control changes")
		send = midiout.NewLogSender(logger).Send
	}

	result := &sink{
		Out:       midiout.NewOut(send, logger),
		transport: transport,
	}
	if c.MirrorLEDs() {
		result.leds = midiout.NewLEDMirror(result.Send, uint8(c.LEDChannel), uint8(c.LEDNoteBase), ctrl.NumLEDs, logger)
	}
	return result, nil
}

// watchControl reports every valid change of the configuration file as a new
// configuration of the surface.
func watchControl() <-chan ctrl.Config {
	result := make(chan ctrl.Config, 1)
	if config.ConfigFileUsed() == "" {
		return result
	}
	cfg.Watch(config, 100*time.Millisecond, logger, func(c cfg.Configuration) {
		control, err := c.Control()
		if err != nil {
			logger.Warn("ignoring configuration", "err", err)
			return
		}
		select {
		case result <- control:
		default:
			logger.Warn("configuration change dropped, the surface is busy")
		}
	})
	return result
}
