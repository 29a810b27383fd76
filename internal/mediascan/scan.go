package mediascan

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Scanner walks a directory tree depth-first, counting media files and
// optionally copying them. A Scanner is used for a single run.
type Scanner struct {
	fs       afero.Fs
	root     string
	matcher  *Matcher
	copier   *Copier
	metrics  *Metrics
	reporter Reporter
	log      *slog.Logger
	copied   uint64
	failed   uint64
}

// frame is one directory on the work stack.
type frame struct {
	dir     string
	depth   int
	entries []os.FileInfo
	next    int
}

// NewScanner creates a scanner over fs rooted at root.
// A nil copier disables copying; a nil reporter discards events.
func NewScanner(fs afero.Fs, root string, matcher *Matcher, copier *Copier, reporter Reporter) *Scanner {
	if reporter == nil {
		reporter = Discard
	}

	return &Scanner{
		fs:       fs,
		root:     root,
		matcher:  matcher,
		copier:   copier,
		metrics:  NewMetrics(),
		reporter: reporter,
		log:      slog.Default(),
	}
}

// Metrics returns the table accumulated so far.
func (s *Scanner) Metrics() *Metrics {
	return s.metrics
}

// Stats returns a snapshot of the scan results.
func (s *Scanner) Stats() *Stats {
	stats := s.metrics.snapshot()
	stats.Copied = s.copied
	stats.Failed = s.failed

	if s.copier != nil {
		stats.Target = s.copier.Root()
	}

	return stats
}

// Scan walks the tree. Directories are processed in listing order and a
// subdirectory is fully visited before its next sibling, as a recursive walk
// would. Every failure is handled where it occurs; Scan always completes.
func (s *Scanner) Scan() {
	stack := []*frame{s.enter(s.root, 0)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]

			continue
		}

		entry := top.entries[top.next]
		top.next++

		path := filepath.Join(top.dir, entry.Name())

		if s.excluded(path) {
			s.log.Debug("excluding path", "path", path)

			continue
		}

		if s.isDir(path, entry) {
			stack = append(stack, s.enter(path, top.depth+1))

			continue
		}

		s.visitFile(path, entry.Name(), top.depth)
	}
}

// enter reports the directory and lists it. A listing failure yields an
// empty frame so siblings and ancestors continue unaffected.
func (s *Scanner) enter(dir string, depth int) *frame {
	s.reporter.Report(Event{Type: DirEntered, Path: dir, Depth: depth})

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		s.log.Debug("skipping unreadable directory", "path", dir, "error", err)
	}

	return &frame{dir: dir, depth: depth, entries: entries}
}

// isDir reports whether the entry is a directory, following symlinks.
func (s *Scanner) isDir(path string, entry os.FileInfo) bool {
	if entry.IsDir() {
		return true
	}

	if entry.Mode()&os.ModeSymlink == 0 {
		return false
	}

	info, err := s.fs.Stat(path)

	return err == nil && info.IsDir()
}

func (s *Scanner) excluded(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}

	return s.matcher.Excluded(rel)
}

// visitFile classifies one non-directory entry, counts it and copies it.
func (s *Scanner) visitFile(path, name string, depth int) {
	ext, ok := s.matcher.Match(name)
	if !ok {
		return
	}

	// Copies written earlier in this run are not sources.
	if s.copier != nil && s.copier.Wrote(path) {
		s.log.Debug("skipping copy made by this run", "path", path)

		return
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		s.log.Debug("skipping file with unreadable metadata", "path", path, "error", err)

		return
	}

	size := uint64(info.Size()) //nolint:gosec // Sizes reported by the filesystem are never negative
	s.metrics.Add(ext, size)

	ev := Event{Path: path, Ext: ext, Size: size, Depth: depth}

	if s.copier == nil {
		ev.Type = FileFound
		s.reporter.Report(ev)

		return
	}

	dir, err := s.copier.Subdir(ext)
	if err != nil {
		s.failed++
		ev.Type = SubdirFailed
		ev.Err = err
		s.reporter.Report(ev)

		return
	}

	dst, err := s.copier.Copy(path, dir)
	if err != nil {
		s.failed++
		ev.Type = CopyFailed
		ev.Err = err
	} else {
		s.copied++
		ev.Type = FileCopied
		ev.Dest = dst
	}

	s.reporter.Report(ev)
}
