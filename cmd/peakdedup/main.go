// peakdedup - mass-spectrometry peak list deduplication tool
package main

import (
	"fmt"
	"os"

	"github.com/mzkit/peakdedup/cmd/peakdedup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
