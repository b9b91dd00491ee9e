// main is the entry point for the hotspots CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Stephen-Collins-tech/hotspots-sub001/cmd"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/iocache"
)

func main() {
	err := cmd.Execute()

	if profErr := cmd.StopProfiling(); profErr != nil {
		fmt.Fprintln(os.Stderr, "Warning: failed to stop profiling:", profErr)
	}

	iocache.CloseCaching()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
