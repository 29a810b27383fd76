package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/mediascan/internal/mediascan"
)

func logic(cmd *cobra.Command, options mediascan.Options) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	// Keep stdout parseable for JSON; progress lines go to stderr instead.
	lines := out
	if strings.EqualFold(options.Output, "json") {
		lines = errOut
	}

	presenter := newConsole(lines)

	if options.Progress && !options.Debug && isTerminal(errOut) {
		total, err := mediascan.Estimate(options)
		if err != nil {
			slog.Debug("estimating file count", "error", err)

			total = -1
		}

		presenter.withProgress(errOut, total)
	}

	stats, err := mediascan.Run(options, presenter)

	presenter.finish()

	if errors.Is(err, mediascan.ErrTargetDir) {
		// Nothing was scanned; this is reported but not treated as a failed run.
		fmt.Fprintf(lines, "Error: %v\n", err)

		return nil
	}

	if err != nil {
		return err
	}

	switch strings.ToLower(options.Output) {
	case "json":
		return PrintJSON(stats, out)
	case "table":
		return PrintTable(stats, out)
	case "plain":
		return PrintPlain(stats, out)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
