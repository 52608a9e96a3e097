// Command gantry renders and checks work order schedules.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/gantry/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gantry: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
