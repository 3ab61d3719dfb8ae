package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftl/midifader/pkg/midiout"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available MIDI output ports",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	defer midiout.CloseDriver()

	ports := midiout.ListPorts()
	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "no MIDI output ports available")
		return nil
	}
	fmt.Fprintln(out, "available output ports:")
	for _, port := range ports {
		fmt.Fprintf(out, "%2d: %s\n", port.Number, port.Name)
	}
	return nil
}
