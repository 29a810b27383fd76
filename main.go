// Command mediascan finds media files by extension, reports per-extension
// counts and sizes, and optionally copies the files into per-extension folders.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/mediascan/internal/cli"
)

// version is set at build time.
//
//nolint:gochecknoglobals // Set by ldflags
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
