// Package trace reads and writes recorded input traces of the surface and replays
// them against simulated hardware.
//
// A trace is CSV with one sample per line: ms,raw,up,down. ms is the offset from the
// start of the trace in milliseconds, raw the ADC reading, up and down are 1 while
// the button is pressed. Lines starting with # are comments.
package trace

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ftl/midifader/pkg/hw"
)

type Sample struct {
	At   time.Duration
	Raw  uint16
	Up   bool
	Down bool
}

// Inputs are the simulated inputs a trace is played into.
type Inputs struct {
	Poti *hw.ADC
	Up   *hw.Pin
	Down *hw.Pin
}

// Apply sets the inputs to the state of the sample.
func (s Sample) Apply(in Inputs) {
	in.Poti.SimulateValue(s.Raw)
	in.Up.SetPressed(s.Up)
	in.Down.SetPressed(s.Down)
}

func ReadFile(filename string) ([]Sample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read trace %s: %w", filename, err)
	}
	return result, nil
}

func Read(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var result []Sample
	var last time.Duration
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if sample.At < last {
			return nil, fmt.Errorf("line %d: time %v is before the previous sample at %v", line, sample.At, last)
		}
		last = sample.At
		result = append(result, sample)
	}
	return result, nil
}

func parseSample(record []string) (Sample, error) {
	ms, err := strconv.ParseUint(record[0], 10, 32)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid time %q", record[0])
	}
	raw, err := strconv.ParseUint(record[1], 10, 16)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid ADC reading %q", record[1])
	}
	up, err := parseButton(record[2])
	if err != nil {
		return Sample{}, err
	}
	down, err := parseButton(record[3])
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		At:   time.Duration(ms) * time.Millisecond,
		Raw:  uint16(raw),
		Up:   up,
		Down: down,
	}, nil
}

func parseButton(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("invalid button state %q, use 0 or 1", s)
	}
}

// Write writes the samples in the trace format.
func Write(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if _, err := io.WriteString(w, "# ms,raw,up,down\n"); err != nil {
		return err
	}
	for _, sample := range samples {
		record := []string{
			strconv.FormatInt(sample.At.Milliseconds(), 10),
			strconv.FormatUint(uint64(sample.Raw), 10),
			formatButton(sample.Up),
			formatButton(sample.Down),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatButton(pressed bool) string {
	if pressed {
		return "1"
	}
	return "0"
}

// Replay plays the samples into the inputs and calls tick every step of virtual time,
// starting at start. Each sample is held until the next one, the last sample is
// ticked once. Replay returns the number of ticks.
func Replay(samples []Sample, start time.Time, step time.Duration, in Inputs, tick func(time.Time)) int {
	if step <= 0 {
		step = time.Millisecond
	}

	ticks := 0
	for i, sample := range samples {
		sample.Apply(in)

		if i == len(samples)-1 {
			tick(start.Add(sample.At))
			ticks++
			break
		}
		until := samples[i+1].At
		for t := sample.At; t < until; t += step {
			tick(start.Add(t))
			ticks++
		}
	}
	return ticks
}

// Play applies each sample to the inputs at its time after the call, in real time.
// The surface is ticked elsewhere, e.g. by ctrl.Surface.Run. Play returns when the
// last sample is applied or the context is done.
func Play(ctx context.Context, samples []Sample, in Inputs) error {
	start := time.Now()
	for _, sample := range samples {
		wait := time.Until(start.Add(sample.At))
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		sample.Apply(in)
	}
	return nil
}
