package mediascan

import (
	"path/filepath"
	"time"
)

// DefaultPath is the start directory used when none is given.
const DefaultPath = "./"

// DefaultExtensions is the comma-separated media extension list used when none is given.
const DefaultExtensions = "mp4,mp3,jpg,png,docx,wma,pdf,psd,jpeg,gif,doc,avi,wmv,flv,mov"

// Options configures a scan and the CLI around it.
type Options struct {
	// Path is the directory to scan.
	Path string
	// Target is the copy root. Empty means classify only.
	Target string
	// Extensions are the media extensions to match, without a leading dot.
	Extensions []string
	// Excludes contains glob patterns for paths that are not scanned.
	Excludes []string
	// Verify indicates whether copies are checked against their source.
	Verify bool
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents the summary format (plain, table or json).
	Output string
	// Progress indicates whether a progress bar replaces per-file lines.
	Progress bool
	// Config is the path to an optional configuration file.
	Config string
	// Version indicates whether to show version and exit.
	Version bool
}

// normalize fills defaults and cleans paths.
func (o Options) normalize() Options {
	if o.Path == "" {
		o.Path = DefaultPath
	}

	o.Path = filepath.Clean(o.Path)

	if o.Target != "" {
		o.Target = filepath.Clean(o.Target)
	}

	return o
}

// Stats is the outcome of a scan.
type Stats struct {
	// Extensions maps each matched extension to its statistics.
	Extensions map[string]ExtStat `json:"extensions"`
	// TotalFiles is the number of counted files across all extensions.
	TotalFiles uint64 `json:"total_files"`
	// TotalBytes is the cumulative size of all counted files.
	TotalBytes uint64 `json:"total_bytes"`
	// Copied is the number of files copied into the target.
	Copied uint64 `json:"copied"`
	// Failed is the number of counted files whose copy did not succeed.
	Failed uint64 `json:"failed"`
	// Target is the copy root, empty when copying was disabled.
	Target string `json:"target,omitempty"`
	// Elapsed is the wall-clock duration of the scan.
	Elapsed time.Duration `json:"elapsed"`

	order []string
}

// Order returns the extensions in the order they were first encountered.
func (s *Stats) Order() []string {
	return s.order
}
