package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/mediascan/internal/mediascan"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *mediascan.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPlain outputs the summary block: elapsed time, one line per extension
// in lexical order, then the grand totals.
//
//nolint:forbidigo // This function prints output to the console.
func PrintPlain(stats *mediascan.Stats, writer io.Writer) error {
	exts := make([]string, 0, len(stats.Extensions))
	for ext := range stats.Extensions {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	fmt.Fprintf(writer, "\nSearch and copy completed in %v\n", stats.Elapsed.Round(time.Microsecond))
	fmt.Fprintln(writer, "=== Summary ===")

	for _, ext := range exts {
		stat := stats.Extensions[ext]
		fmt.Fprintf(writer, "Extension: .%s, Count: %d, Aggregate Size: %d bytes\n", ext, stat.Count, stat.Size)
	}

	fmt.Fprintf(writer, "Total Files: %d\n", stats.TotalFiles)
	_, err := fmt.Fprintf(writer, "Total Size: %d bytes\n", stats.TotalBytes)

	return err
}

// PrintTable outputs statistics in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(stats *mediascan.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nExtensions:\t\t")

	extList := make([]string, 0, len(stats.Extensions))
	for ext := range stats.Extensions {
		extList = append(extList, ext)
	}

	// Smallest first, so the largest ends up next to the totals.
	sort.Slice(extList, func(i, j int) bool {
		a, b := stats.Extensions[extList[i]], stats.Extensions[extList[j]]
		if a.Size == b.Size {
			return extList[i] < extList[j]
		}

		return a.Size < b.Size
	})

	for i, ext := range extList {
		stat := stats.Extensions[ext]
		pct := 0.0
		if stats.TotalBytes > 0 {
			pct = 100.0 * float64(stat.Size) / float64(stats.TotalBytes)
		}
		fmt.Fprintf(w, "  %d) .%s:\t%d files, %s (%.1f%%)\n",
			len(extList)-i, ext, stat.Count, humanize.IBytes(stat.Size), pct)
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%d\n", stats.TotalFiles)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(stats.TotalBytes), stats.TotalBytes)

	if stats.Target != "" {
		fmt.Fprintf(w, "Copied to:\t%s\n", stats.Target)
		fmt.Fprintf(w, "Copied:\t%d\n", stats.Copied)
		fmt.Fprintf(w, "Failed:\t%d\n", stats.Failed)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
