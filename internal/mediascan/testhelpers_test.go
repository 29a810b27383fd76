package mediascan

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// writeFile creates path on fs with size bytes of content, creating parents.
func writeFile(t *testing.T, fs afero.Fs, path string, size int) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, bytes.Repeat([]byte("x"), size), 0o644))
}

// recorder collects events in the order they are reported.
type recorder struct {
	events []Event
}

func (r *recorder) Report(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(t EventType) []Event {
	var out []Event

	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}

	return out
}

// newTestScanner builds a scanner over fs for the given extensions.
func newTestScanner(t *testing.T, fs afero.Fs, root, target string, exts ...string) (*Scanner, *recorder) {
	t.Helper()

	matcher, err := NewMatcher(exts, nil)
	require.NoError(t, err)

	var copier *Copier
	if target != "" {
		copier = NewCopier(fs, target, false)
	}

	rec := &recorder{}

	return NewScanner(fs, root, matcher, copier, rec), rec
}
