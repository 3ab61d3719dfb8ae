package main

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/ftl/midifader/cmd"
)

func main() {
	cmd.Execute()
}
