package mediascan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrVerify is returned when a copy does not match its source.
var ErrVerify = errors.New("copy does not match source")

// Copier places matched files into per-extension subfolders of a target root.
type Copier struct {
	fs      afero.Fs
	root    string
	verify  bool
	subdirs map[string]string
	written map[string]struct{}
}

// NewCopier creates a copier rooted at root. When verify is set, each copy is
// compared to its source by BLAKE3 digest.
func NewCopier(fs afero.Fs, root string, verify bool) *Copier {
	return &Copier{
		fs:      fs,
		root:    root,
		verify:  verify,
		subdirs: make(map[string]string),
		written: make(map[string]struct{}),
	}
}

// Root returns the target root.
func (c *Copier) Root() string {
	return c.root
}

// Subdir returns root/ext, creating it and any missing parents.
// Successful creations are remembered per extension.
func (c *Copier) Subdir(ext string) (string, error) {
	if dir, ok := c.subdirs[ext]; ok {
		return dir, nil
	}

	dir := filepath.Join(c.root, ext)
	if err := c.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating %q: %w", dir, err)
	}

	c.subdirs[ext] = dir

	return dir, nil
}

// Copy copies src into dir under its base name, replacing any existing file,
// and returns the destination path.
func (c *Copier) Copy(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	if samePath(src, dst) {
		return dst, nil
	}

	if err := copyFile(c.fs, src, dst); err != nil {
		return "", err
	}

	c.written[absPath(dst)] = struct{}{}

	if !c.verify {
		return dst, nil
	}

	if err := c.compare(src, dst); err != nil {
		return "", err
	}

	return dst, nil
}

// Wrote reports whether path is a destination this copier has written to.
func (c *Copier) Wrote(path string) bool {
	_, ok := c.written[absPath(path)]

	return ok
}

// compare checks that src and dst have identical content.
func (c *Copier) compare(src, dst string) error {
	want, err := digest(c.fs, src)
	if err != nil {
		return err
	}

	got, err := digest(c.fs, dst)
	if err != nil {
		return err
	}

	if !bytes.Equal(want, got) {
		return fmt.Errorf("%w: %s", ErrVerify, dst)
	}

	return nil
}

// copyFile copies the content of src to dst, truncating dst if it exists.
// The source permission bits are kept.
func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	perm := os.FileMode(filePerm)
	if info, err := in.Stat(); err == nil && info.Mode().Perm() != 0 {
		perm = info.Mode().Perm()
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copying data: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing destination: %w", err)
	}

	return nil
}

// digest returns the BLAKE3 sum of the file at path.
func digest(fs afero.Fs, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q for verification: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hashing %q: %w", path, err)
	}

	return h.Sum(nil), nil
}

// absPath returns the absolute form of path, or its cleaned form if that fails.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}

// samePath reports whether a and b name the same location.
func samePath(a, b string) bool {
	return absPath(a) == absPath(b)
}
