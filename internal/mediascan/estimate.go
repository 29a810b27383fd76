package mediascan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Estimate counts the files a scan of opt would classify as media, without
// reading metadata or copying. It walks the host filesystem in parallel and
// applies the same exclusion rules as the scan, so it is suitable
// for sizing progress output before the sequential scan starts.
func Estimate(opt Options) (int64, error) {
	opt = opt.normalize()

	matcher, err := NewMatcher(opt.Extensions, opt.Excludes)
	if err != nil {
		return 0, err
	}

	var count atomic.Int64

	conf := &fastwalk.Config{
		Follow: true,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, opt.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Silently skip errors
		}

		if path == opt.Path {
			return nil
		}

		rel, relErr := filepath.Rel(opt.Path, path)
		if relErr != nil {
			rel = path
		}

		isDir := d.IsDir()
		if !isDir && d.Type()&fs.ModeSymlink != 0 {
			if info, statErr := os.Stat(path); statErr == nil {
				isDir = info.IsDir()
			}
		}

		// Excluded links to directories are skipped too: with Follow set,
		// fastwalk would otherwise descend into them.
		if matcher.Excluded(rel) {
			if isDir {
				return filepath.SkipDir
			}

			return nil
		}

		if isDir {
			return nil
		}

		if _, ok := matcher.Match(d.Name()); ok {
			count.Add(1)
		}

		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}

	return count.Load(), nil
}
