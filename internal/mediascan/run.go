package mediascan

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
)

// ErrTargetDir is returned when the target directory cannot be created.
// No scanning takes place in that case.
var ErrTargetDir = errors.New("failed to create target directory")

// Run scans opt.Path on the host filesystem and returns aggregated statistics.
// See RunFs.
func Run(opt Options, reporter Reporter) (*Stats, error) {
	return RunFs(afero.NewOsFs(), opt, reporter)
}

// RunFs scans opt.Path on fs and returns aggregated statistics.
//
// Files whose extension is in opt.Extensions are counted and, if opt.Target
// is set, copied into opt.Target/<ext>/. Progress is sent to reporter.
// Failures on individual directories or files are reported or skipped and
// never abort the scan. The only error after option validation is
// ErrTargetDir, returned before any scanning.
func RunFs(fs afero.Fs, opt Options, reporter Reporter) (*Stats, error) {
	opt = opt.normalize()

	matcher, err := NewMatcher(opt.Extensions, opt.Excludes)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var copier *Copier

	if opt.Target != "" {
		if err := fs.MkdirAll(opt.Target, dirPerm); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrTargetDir, opt.Target, err)
		}

		copier = NewCopier(fs, opt.Target, opt.Verify)
	}

	scanner := NewScanner(fs, opt.Path, matcher, copier, reporter)
	scanner.Scan()

	stats := scanner.Stats()
	stats.Elapsed = time.Since(start)

	return stats, nil
}
