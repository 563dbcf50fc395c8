package portability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertwitch/w32io/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newTestTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Data", "Sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Data", "Sub", "Report.TXT"), []byte("x"), 0o644))

	return root
}

func toBackslashes(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

// TestParseMode tests the function [ParseMode].
func TestParseMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModeNone, ParseMode(""))
	assert.Equal(t, ModeDrive, ParseMode("drive"))
	assert.Equal(t, ModeCase, ParseMode("CASE"))
	assert.Equal(t, ModeAll, ParseMode("drive:case"))
	assert.Equal(t, ModeAll, ParseMode("all"))
	assert.Equal(t, ModeCase, ParseMode("case,bogus"), "unknown tokens should be ignored")
	assert.Equal(t, "all", ModeAll.String())
}

// TestNormalize tests the method [Resolver.Normalize].
func TestNormalize(t *testing.T) {
	t.Parallel()

	r := NewResolver(ModeAll, &schema.OS{}, &schema.Unix{})
	assert.Equal(t, "/a/b", r.Normalize(`C:\a\b`))
	assert.Equal(t, "a/b", r.Normalize(`a\b`))

	r = NewResolver(ModeCase, &schema.OS{}, &schema.Unix{})
	assert.Equal(t, "C:/a", r.Normalize(`C:\a`), "drive should be kept without drive mode")

	r = NewResolver(ModeNone, &schema.OS{}, &schema.Unix{})
	assert.Equal(t, `a\b`, r.Normalize(`a\b`), "disabled resolver should not touch the path")
}

// TestFind_Success_Case tests case-insensitive resolution of every component.
func TestFind_Success_Case(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeAll, &schema.OS{}, &schema.Unix{})

	located, ok := r.Find(filepath.Join(root, "data", "SUB", "report.txt"), true)

	require.True(t, ok, "path should be resolved")
	assert.Equal(t, filepath.Join(root, "Data", "Sub", "Report.TXT"), located)
}

// TestFind_Success_BackslashAndDrive tests separator and drive normalization.
func TestFind_Success_BackslashAndDrive(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeAll, &schema.OS{}, &schema.Unix{})

	located, ok := r.Find("Z:"+toBackslashes(filepath.Join(root, "data", "sub", "REPORT.txt")), true)

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Data", "Sub", "Report.TXT"), located)
}

// TestFind_Success_SimpleFix tests that a separator fix alone suffices.
func TestFind_Success_SimpleFix(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeDrive, &schema.OS{}, &schema.Unix{})

	located, ok := r.Find(toBackslashes(filepath.Join(root, "Data", "Sub", "Report.TXT")), true)

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Data", "Sub", "Report.TXT"), located)
}

// TestFind_Success_CreateMode tests that the final component is kept as
// given when it is about to be created.
func TestFind_Success_CreateMode(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeCase, &schema.OS{}, &schema.Unix{})

	located, ok := r.Find(filepath.Join(root, "DATA", "sub", "NewFile.txt"), false)

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Data", "Sub", "NewFile.txt"), located)
}

// TestFind_Fail_NoMatch tests that a missing component yields no match.
func TestFind_Fail_NoMatch(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeAll, &schema.OS{}, &schema.Unix{})

	_, ok := r.Find(filepath.Join(root, "data", "missing", "report.txt"), true)
	assert.False(t, ok)
}

// TestFind_Fail_Disabled tests that a disabled resolver never matches.
func TestFind_Fail_Disabled(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeNone, &schema.OS{}, &schema.Unix{})

	_, ok := r.Find(filepath.Join(root, "data"), true)
	assert.False(t, ok)
}

// TestFind_Fail_DriveOnlyNoCase tests that drive mode does not fix case.
func TestFind_Fail_DriveOnlyNoCase(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	r := NewResolver(ModeDrive, &schema.OS{}, &schema.Unix{})

	_, ok := r.Find(filepath.Join(root, "data"), true)
	assert.False(t, ok)
}

// TestBasenameDirname tests the path helpers of [Resolver].
func TestBasenameDirname(t *testing.T) {
	t.Parallel()

	r := NewResolver(ModeAll, &schema.OS{}, &schema.Unix{})
	assert.Equal(t, "file.txt", r.Basename(`C:\dir\file.txt`))
	assert.Equal(t, "/dir", r.Dirname(`C:\dir\file.txt`))
	assert.Equal(t, ".", r.Dirname("file.txt"))
}

// TestHandler_Success_Retries tests that wrapped syscalls retry with the
// resolved path.
func TestHandler_Success_Retries(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	h := NewHandler(ModeAll, &schema.OS{}, &schema.Unix{})
	wrong := filepath.Join(root, "DATA", "sub", "report.txt")

	var st unix.Stat_t
	require.NoError(t, h.Stat(wrong, &st), "stat should be retried")
	require.NoError(t, h.Lstat(wrong, &st), "lstat should be retried")
	require.NoError(t, h.Access(wrong, unix.R_OK), "access should be retried")
	require.NoError(t, h.Chmod(wrong, 0o600), "chmod should be retried")

	fd, err := h.Open(wrong, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	require.NoError(t, err, "open should be retried")
	require.NoError(t, unix.Close(fd))

	entries, err := h.ReadDir(filepath.Join(root, "data", "SUB"))
	require.NoError(t, err, "readdir should be retried")
	assert.Len(t, entries, 1)

	require.NoError(t, h.Rename(wrong, filepath.Join(root, "data", "sub", "renamed.txt")))
	_, err = os.Stat(filepath.Join(root, "Data", "Sub", "renamed.txt"))
	require.NoError(t, err, "rename target should land in the resolved parent")

	require.NoError(t, h.Unlink(filepath.Join(root, "DATA", "SUB", "RENAMED.TXT")))
	require.NoError(t, h.Mkdir(filepath.Join(root, "data", "sub", "Fresh"), 0o755))
	require.NoError(t, h.Rmdir(filepath.Join(root, "DATA", "SUB", "fresh")))
}

// TestHandler_Fail_FirstError tests that the first error survives when
// the resolver finds nothing.
func TestHandler_Fail_FirstError(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	h := NewHandler(ModeAll, &schema.OS{}, &schema.Unix{})

	var st unix.Stat_t
	err := h.Stat(filepath.Join(root, "data", "nothing"), &st)
	require.ErrorIs(t, err, unix.ENOENT)

	_, err = h.Open(filepath.Join(root, "nope", "x"), unix.O_RDONLY, 0)
	require.ErrorIs(t, err, unix.ENOENT)
}

// TestHandler_Success_CreateResolvesParents tests that O_CREAT opens land in
// the resolved parent directory.
func TestHandler_Success_CreateResolvesParents(t *testing.T) {
	t.Parallel()

	root := newTestTree(t)
	h := NewHandler(ModeCase, &schema.OS{}, &schema.Unix{})

	fd, err := h.Open(filepath.Join(root, "DATA", "new.bin"), unix.O_CREAT|unix.O_WRONLY|unix.O_CLOEXEC, 0o644)
	require.NoError(t, err)
	require.NoError(t, unix.Close(fd))

	_, err = os.Stat(filepath.Join(root, "Data", "new.bin"))
	require.NoError(t, err)
}
