package mediascan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCountsWithoutTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.jpg", 10)
	writeFile(t, fs, "/src/b.txt", 5)
	writeFile(t, fs, "/src/d/c.jpg", 20)
	writeFile(t, fs, "/src/d/e/f.png", 3)
	writeFile(t, fs, "/src/d/e/g.PNG", 4)
	writeFile(t, fs, "/src/noext", 1)

	s, rec := newTestScanner(t, fs, "/src", "", "jpg", "png")
	s.Scan()

	stat, ok := s.Metrics().Get("jpg")
	require.True(t, ok)
	assert.Equal(t, ExtStat{Count: 2, Size: 30}, stat)

	stat, ok = s.Metrics().Get("png")
	require.True(t, ok)
	assert.Equal(t, ExtStat{Count: 1, Size: 3}, stat)

	assert.Equal(t, 2, s.Metrics().Len())
	assert.Len(t, rec.ofType(FileFound), 3)
	assert.Empty(t, rec.ofType(FileCopied))

	// Nothing but the source tree exists.
	exists, err := afero.DirExists(fs, "/out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestScanCopiesIntoExtensionFolders(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.jpg", 10)
	writeFile(t, fs, "/src/b.txt", 5)
	writeFile(t, fs, "/src/d/c.jpg", 20)
	writeFile(t, fs, "/src/d/song.mp3", 8)

	s, rec := newTestScanner(t, fs, "/src", "/out", "jpg", "mp3")
	s.Scan()

	for _, p := range []string{"/out/jpg/a.jpg", "/out/jpg/c.jpg", "/out/mp3/song.mp3"} {
		want, err := afero.ReadFile(fs, filepath.Join("/src", relSource(p)))
		require.NoError(t, err)

		got, err := afero.ReadFile(fs, p)
		require.NoError(t, err, p)
		assert.Equal(t, want, got, p)
	}

	exists, err := afero.Exists(fs, "/out/txt")
	require.NoError(t, err)
	assert.False(t, exists)

	copied := rec.ofType(FileCopied)
	require.Len(t, copied, 3)
	assert.Equal(t, "/out/jpg/a.jpg", copied[0].Dest)

	stats := s.Stats()
	assert.Equal(t, uint64(3), stats.Copied)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, "/out", stats.Target)
	assert.Equal(t, uint64(3), stats.TotalFiles)
	assert.Equal(t, uint64(38), stats.TotalBytes)
}

// relSource maps /out/<ext>/<name> back to its source in the fixture above.
func relSource(p string) string {
	name := filepath.Base(p)
	if name == "a.jpg" {
		return name
	}

	return filepath.Join("d", name)
}

func TestScanMetricsIndependentOfTarget(t *testing.T) {
	build := func() afero.Fs {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/src/x.gif", 11)
		writeFile(t, fs, "/src/y/z.gif", 13)
		writeFile(t, fs, "/src/y/z.mov", 17)

		return fs
	}

	plain, _ := newTestScanner(t, build(), "/src", "", "gif", "mov")
	plain.Scan()

	copying, _ := newTestScanner(t, build(), "/src", "/out", "gif", "mov")
	copying.Scan()

	assert.Equal(t, plain.Stats().Extensions, copying.Stats().Extensions)
}

func TestScanDepthFirstOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.jpg", 1)
	writeFile(t, fs, "/src/m/n.jpg", 1)
	writeFile(t, fs, "/src/m/o/p.jpg", 1)
	writeFile(t, fs, "/src/z.jpg", 1)

	s, rec := newTestScanner(t, fs, "/src", "", "jpg")
	s.Scan()

	type step struct {
		typ   EventType
		path  string
		depth int
	}

	got := make([]step, 0, len(rec.events))
	for _, ev := range rec.events {
		got = append(got, step{ev.Type, ev.Path, ev.Depth})
	}

	assert.Equal(t, []step{
		{DirEntered, "/src", 0},
		{FileFound, "/src/a.jpg", 0},
		{DirEntered, "/src/m", 1},
		{FileFound, "/src/m/n.jpg", 1},
		{DirEntered, "/src/m/o", 2},
		{FileFound, "/src/m/o/p.jpg", 2},
		{FileFound, "/src/z.jpg", 0},
	}, got)
}

func TestScanFinalDotSuffixOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.tar.gz", 9)

	s, _ := newTestScanner(t, fs, "/src", "", "tar", "tar.gz")
	s.Scan()
	assert.Zero(t, s.Metrics().Len())

	s, _ = newTestScanner(t, fs, "/src", "", "gz")
	s.Scan()

	stat, ok := s.Metrics().Get("gz")
	require.True(t, ok)
	assert.Equal(t, ExtStat{Count: 1, Size: 9}, stat)
}

func TestScanMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, rec := newTestScanner(t, fs, "/nope", "", "jpg")
	s.Scan()

	assert.Zero(t, s.Metrics().Len())
	require.Len(t, rec.events, 1)
	assert.Equal(t, DirEntered, rec.events[0].Type)
}

func TestScanSubdirFailureIsNonFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.jpg", 10)
	writeFile(t, fs, "/src/b.jpg", 20)

	matcher, err := NewMatcher([]string{"jpg"}, nil)
	require.NoError(t, err)

	ro := afero.NewReadOnlyFs(fs)
	rec := &recorder{}
	s := NewScanner(ro, "/src", matcher, NewCopier(ro, "/out", false), rec)
	s.Scan()

	failed := rec.ofType(SubdirFailed)
	require.Len(t, failed, 2)
	assert.Equal(t, "jpg", failed[0].Ext)
	require.Error(t, failed[0].Err)

	stat, ok := s.Metrics().Get("jpg")
	require.True(t, ok)
	assert.Equal(t, ExtStat{Count: 2, Size: 30}, stat)
	assert.Equal(t, uint64(2), s.Stats().Failed)
	assert.Zero(t, s.Stats().Copied)
}

func TestScanExcludes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/keep.jpg", 1)
	writeFile(t, fs, "/src/.git/objects/x.jpg", 1)
	writeFile(t, fs, "/src/sub/skip.jpg", 1)

	matcher, err := NewMatcher([]string{"jpg"}, []string{".git", "skip.jpg"})
	require.NoError(t, err)

	rec := &recorder{}
	s := NewScanner(fs, "/src", matcher, nil, rec)
	s.Scan()

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, uint64(1), stat.Count)

	for _, ev := range rec.ofType(DirEntered) {
		assert.NotContains(t, ev.Path, ".git")
	}
}

func TestScanCopyFailureIsNonFatal(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	fs := afero.NewOsFs()

	writeFile(t, fs, filepath.Join(src, "a.jpg"), 10)
	writeFile(t, fs, filepath.Join(src, "b.jpg"), 20)

	// A directory where the copy of a.jpg should go makes that copy fail.
	require.NoError(t, os.MkdirAll(filepath.Join(target, "jpg", "a.jpg"), 0o755))

	s, rec := newTestScanner(t, fs, src, target, "jpg")
	s.Scan()

	failed := rec.ofType(CopyFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(src, "a.jpg"), failed[0].Path)
	require.Error(t, failed[0].Err)

	copied := rec.ofType(FileCopied)
	require.Len(t, copied, 1)
	assert.FileExists(t, filepath.Join(target, "jpg", "b.jpg"))

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, ExtStat{Count: 2, Size: 30}, stat)
}

func TestScanSubdirBlockedByFile(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	fs := afero.NewOsFs()

	writeFile(t, fs, filepath.Join(src, "a.png"), 4)
	writeFile(t, fs, filepath.Join(src, "b.jpg"), 6)
	writeFile(t, fs, filepath.Join(target, "png"), 1)

	s, rec := newTestScanner(t, fs, src, target, "jpg", "png")
	s.Scan()

	require.Len(t, rec.ofType(SubdirFailed), 1)
	require.Len(t, rec.ofType(FileCopied), 1)
	assert.FileExists(t, filepath.Join(target, "jpg", "b.jpg"))
	assert.Equal(t, 2, s.Metrics().Len())
}

func TestScanUnreadableMetadataIsSilent(t *testing.T) {
	src := t.TempDir()
	fs := afero.NewOsFs()

	writeFile(t, fs, filepath.Join(src, "ok.jpg"), 5)
	require.NoError(t, os.Symlink(filepath.Join(src, "missing"), filepath.Join(src, "broken.jpg")))

	s, rec := newTestScanner(t, fs, src, "", "jpg")
	s.Scan()

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, ExtStat{Count: 1, Size: 5}, stat)
	require.Len(t, rec.ofType(FileFound), 1)
	assert.Equal(t, filepath.Join(src, "ok.jpg"), rec.ofType(FileFound)[0].Path)
}

func TestScanUnreadableSubtree(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	src := t.TempDir()
	fs := afero.NewOsFs()

	writeFile(t, fs, filepath.Join(src, "a", "one.jpg"), 1)
	writeFile(t, fs, filepath.Join(src, "b", "two.jpg"), 2)
	writeFile(t, fs, filepath.Join(src, "c", "three.jpg"), 3)

	locked := filepath.Join(src, "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	s, rec := newTestScanner(t, fs, src, "", "jpg")
	s.Scan()

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, ExtStat{Count: 2, Size: 4}, stat)
	assert.Len(t, rec.ofType(DirEntered), 4)
}

func TestScanFollowsDirectorySymlinks(t *testing.T) {
	src := t.TempDir()
	other := t.TempDir()
	fs := afero.NewOsFs()

	writeFile(t, fs, filepath.Join(other, "linked.jpg"), 7)
	require.NoError(t, os.Symlink(other, filepath.Join(src, "link")))

	s, _ := newTestScanner(t, fs, src, "", "jpg")
	s.Scan()

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, ExtStat{Count: 1, Size: 7}, stat)
}

// denyOpenFs fails every Open of one directory, as an unreadable directory would.
type denyOpenFs struct {
	afero.Fs
	deny string
}

func (f denyOpenFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == f.deny {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}

	return f.Fs.Open(name)
}

func TestScanUnlistableSiblingSubtree(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFile(t, base, "/src/a/one.jpg", 1)
	writeFile(t, base, "/src/b/two.jpg", 2)
	writeFile(t, base, "/src/b/inner/deep.jpg", 8)
	writeFile(t, base, "/src/c/three.jpg", 3)
	writeFile(t, base, "/src/top.jpg", 5)

	s, rec := newTestScanner(t, denyOpenFs{Fs: base, deny: "/src/b"}, "/src", "", "jpg")
	s.Scan()

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, ExtStat{Count: 3, Size: 9}, stat)

	var entered []string
	for _, ev := range rec.ofType(DirEntered) {
		entered = append(entered, ev.Path)
	}

	assert.Equal(t, []string{"/src", "/src/a", "/src/b", "/src/c"}, entered)
}

func TestScanCountsFilesAlreadyInTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.jpg", 10)
	writeFile(t, fs, "/src/out/keep/old.jpg", 7)

	s, rec := newTestScanner(t, fs, "/src", "/src/out", "jpg")
	s.Scan()

	stat, _ := s.Metrics().Get("jpg")
	assert.Equal(t, ExtStat{Count: 2, Size: 17}, stat)

	// out/jpg/a.jpg is entered after it was written and is not picked up again.
	var found []string
	for _, ev := range rec.ofType(FileCopied) {
		found = append(found, ev.Path)
	}

	assert.Equal(t, []string{"/src/a.jpg", "/src/out/keep/old.jpg"}, found)

	exists, err := afero.Exists(fs, "/src/out/jpg/old.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}
