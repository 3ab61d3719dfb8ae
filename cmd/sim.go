package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ftl/midifader/pkg/sim"
	"github.com/ftl/midifader/pkg/trace"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the surface with simulated hardware in the terminal",
	Long: `Run the surface with simulated hardware in the terminal.

left/right move the fader one step, pgup/pgdown eight steps, home/end to the ends.
+ presses up, - presses down, m presses both. q quits.`,
	RunE: runSim,
}

var simFlags = struct {
	logFile string
	record  string
}{}

func init() {
	simCmd.Flags().StringVar(&simFlags.logFile, "log", "", "write the log to this file, the log is discarded otherwise")
	simCmd.Flags().StringVar(&simFlags.record, "record", "", "record the simulated inputs as a trace into this file")
	rootCmd.AddCommand(simCmd)
}

func runSim(_ *cobra.Command, _ []string) error {
	// the terminal belongs to the UI
	var logOut io.Writer = io.Discard
	if simFlags.logFile != "" {
		f, err := os.OpenFile(simFlags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	initLogger(logOut, configuration.Debug)

	control, err := configuration.Control()
	if err != nil {
		return err
	}
	out, err := openSink(configuration)
	if err != nil {
		return err
	}
	defer out.Close()

	model, err := sim.NewModel(sim.Options{
		Control:  control,
		Interval: configuration.TickInterval,
		Sender:   out,
		Mirror:   out.leds,
		Updates:  watchControl(),
		Record:   simFlags.record != "",
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("simulator failed: %w", err)
	}

	if simFlags.record == "" {
		return nil
	}
	return writeTrace(simFlags.record, final.(sim.Model).Recording())
}

func writeTrace(filename string, samples []trace.Sample) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := trace.Write(f, samples); err != nil {
		return fmt.Errorf("cannot write trace %s: %w", filename, err)
	}
	return f.Close()
}
