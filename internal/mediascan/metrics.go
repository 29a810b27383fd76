package mediascan

import (
	"maps"
	"sort"
)

// ExtStat represents statistics for a media extension.
type ExtStat struct {
	// Count is the number of files with this extension.
	Count uint64 `json:"count"`
	// Size is the cumulative size in bytes.
	Size uint64 `json:"size"`
}

// Metrics accumulates per-extension statistics for a single run.
// It is not safe for concurrent use; the scan is the only writer.
type Metrics struct {
	stats map[string]ExtStat
	order []string
}

// NewMetrics creates an empty metrics table.
func NewMetrics() *Metrics {
	return &Metrics{
		stats: make(map[string]ExtStat),
	}
}

// Add records one file of the given extension and size.
func (m *Metrics) Add(ext string, size uint64) {
	stat, ok := m.stats[ext]
	if !ok {
		m.order = append(m.order, ext)
	}

	stat.Count++
	stat.Size += size
	m.stats[ext] = stat
}

// Get returns the statistics for ext and whether it was seen.
func (m *Metrics) Get(ext string) (ExtStat, bool) {
	stat, ok := m.stats[ext]

	return stat, ok
}

// Len returns the number of distinct extensions seen.
func (m *Metrics) Len() int {
	return len(m.stats)
}

// Extensions returns the seen extensions in first-encounter order.
func (m *Metrics) Extensions() []string {
	return append([]string(nil), m.order...)
}

// Sorted returns the seen extensions in lexical order.
func (m *Metrics) Sorted() []string {
	exts := m.Extensions()
	sort.Strings(exts)

	return exts
}

// Totals returns the grand totals of files and bytes.
func (m *Metrics) Totals() (files, bytes uint64) {
	for _, stat := range m.stats {
		files += stat.Count
		bytes += stat.Size
	}

	return files, bytes
}

// snapshot copies the table into a Stats value.
func (m *Metrics) snapshot() *Stats {
	files, bytes := m.Totals()

	return &Stats{
		Extensions: maps.Clone(m.stats),
		TotalFiles: files,
		TotalBytes: bytes,
		order:      m.Extensions(),
	}
}
