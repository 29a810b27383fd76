package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/idelchi/mediascan/internal/mediascan"
)

// IndentMarker is repeated once per directory level in progress lines.
const IndentMarker = "--|"

// console writes scan progress as lines, or drives a progress bar when one is attached.
// Warnings are always written as lines.
type console struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newConsole(w io.Writer) *console {
	return &console{w: w}
}

// withProgress attaches a progress bar on w sized for total files. A negative
// total shows an indeterminate spinner.
func (c *console) withProgress(w io.Writer, total int64) {
	c.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Report implements mediascan.Reporter.
//
//nolint:forbidigo // Progress output to console
func (c *console) Report(ev mediascan.Event) {
	if c.bar != nil {
		c.progress(ev)

		return
	}

	indent := strings.Repeat(IndentMarker, ev.Depth)

	switch ev.Type {
	case mediascan.DirEntered:
		if ev.Depth == 0 {
			fmt.Fprintf(c.w, "Starting search for media files in directory: %s\n", ev.Path)
		}

		fmt.Fprintf(c.w, "%s> Entering directory: %s\n", indent, ev.Path)
	case mediascan.FileFound:
		fmt.Fprintf(c.w, "%sFound media file but not copying: %s\n", indent, ev.Path)
	case mediascan.FileCopied:
		fmt.Fprintf(c.w, "%sFound and copied media file: %s\n", indent, ev.Path)
	case mediascan.SubdirFailed, mediascan.CopyFailed:
		c.warn(ev)
	}
}

func (c *console) progress(ev mediascan.Event) {
	if !ev.Type.Counted() {
		return
	}

	if ev.Type == mediascan.SubdirFailed || ev.Type == mediascan.CopyFailed {
		_ = c.bar.Clear()
		c.warn(ev)
	}

	_ = c.bar.Add(1)
}

//nolint:forbidigo // Warning output to console
func (c *console) warn(ev mediascan.Event) {
	switch ev.Type {
	case mediascan.SubdirFailed:
		fmt.Fprintf(c.w, "Failed to create subdirectory for extension: %s (%v)\n", ev.Ext, ev.Err)
	case mediascan.CopyFailed:
		fmt.Fprintf(c.w, "Failed to copy %s: %v\n", ev.Path, ev.Err)
	}
}

// finish completes and clears the progress bar, if any.
func (c *console) finish() {
	if c.bar != nil {
		_ = c.bar.Finish()
	}
}
