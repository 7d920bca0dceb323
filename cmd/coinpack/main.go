// coinpack drives the circle packing core headlessly.
//
// Build:
//   go build -ldflags "-X main.Version=1.0.0" -o coinpack ./cmd/coinpack
//
// Usage:
//   coinpack play scenario.yaml
//   coinpack seed --mode puzzle coins.csv
//   coinpack config init

package main

import (
	"fmt"
	"os"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := newCLIApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
