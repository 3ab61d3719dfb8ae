package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftl/midifader/pkg/ctrl"
	"github.com/ftl/midifader/pkg/hw"
	"github.com/ftl/midifader/pkg/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace>",
	Short: "Feed a recorded input trace through the surface",
	Long: `Feed a recorded input trace through the surface.

A trace is CSV with one line per sample: ms,raw,up,down. By default the trace is
replayed in virtual time as fast as possible, with --realtime it is replayed at its
recorded pace and the configuration file is watched for changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var replayFlags = struct {
	realtime bool
}{}

func init() {
	replayCmd.Flags().BoolVar(&replayFlags.realtime, "realtime", false, "replay the trace at its recorded pace")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(_ *cobra.Command, args []string) error {
	samples, err := trace.ReadFile(args[0])
	if err != nil {
		return err
	}
	control, err := configuration.Control()
	if err != nil {
		return err
	}
	out, err := openSink(configuration)
	if err != nil {
		return err
	}
	defer out.Close()

	in := trace.Inputs{Poti: hw.NewADC(0), Up: hw.NewPin(), Down: hw.NewPin()}
	surface, err := ctrl.NewSurface(control, ctrl.Hardware{Poti: in.Poti, Up: in.Up, Down: in.Down, LEDs: out.leds}, out, logger)
	if err != nil {
		return err
	}

	if !replayFlags.realtime {
		ticks := trace.Replay(samples, time.Now(), configuration.TickInterval, in, surface.Tick)
		logger.Info("trace replayed", "samples", len(samples), "ticks", ticks, "cc", surface.State().ActiveCC)
		return nil
	}

	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt)
	defer done()
	return replayRealtime(ctx, surface, samples, in)
}

func replayRealtime(ctx context.Context, surface *ctrl.Surface, samples []trace.Sample, in trace.Inputs) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	running := make(chan struct{})
	go func() {
		defer close(running)
		surface.Run(ctx, configuration.TickInterval, watchControl())
	}()

	err := trace.Play(ctx, samples, in)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// let the surface see the last sample
	select {
	case <-ctx.Done():
	case <-time.After(10 * configuration.TickInterval):
	}
	cancel()
	<-running

	logger.Info("trace replayed", "samples", len(samples), "cc", surface.State().ActiveCC)
	return nil
}
