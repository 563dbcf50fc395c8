package enumerate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertwitch/w32io/internal/portability"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// deniedProvider lists nothing and refuses access to an existing directory.
type deniedProvider struct {
	schema.Unix
}

func (*deniedProvider) ReadDir(string) ([]os.DirEntry, error) {
	return nil, unix.ENOENT
}

func (*deniedProvider) Access(string, uint32) error {
	return unix.EACCES
}

// TestMatch tests the function [Match].
func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern    string
		name       string
		ignoreCase bool
		want       bool
	}{
		{"a?c", "abc", false, true},
		{"a?c", "ac", false, false},
		{"a?c", "abbc", false, false},
		{"*.txt", "x.txt", false, true},
		{"*.txt", ".txt", false, true},
		{"*.txt", "x.TXT", false, false},
		{"*.txt", "x.TXT", true, true},
		{"*", "", false, true},
		{"*", ".hidden", false, true},
		{"", "", false, true},
		{"", "a", false, false},
		{"a*b*c", "aXXbYYc", false, true},
		{"a*b*c", "aXXbYY", false, false},
		{"*a", "banana", false, true},
		{"??", "äö", false, true},
		{"DATA.*", "data.csv", true, true},
		{"?", "ß", false, true},
		{"?", "ß", true, true},
		{"x?z", "xßz", true, true},
		{"x?z", "xssz", true, false},
		{"STRAẞE", "straße", true, true},
		{"*ß", "FUSS", true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.pattern, tt.name, tt.ignoreCase),
			"Match(%q, %q, %v)", tt.pattern, tt.name, tt.ignoreCase)
	}
}

func newTestDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	return dir
}

// TestScandir_Success tests the function [Handler.Scandir].
func TestScandir_Success(t *testing.T) {
	t.Parallel()

	dir := newTestDir(t, "b.txt", "a.txt", "C.txt", "notes.md")
	h := NewHandler(portability.NewHandler(portability.ModeNone, &schema.OS{}, &schema.Unix{}))

	names, err := h.Scandir(dir, "*.txt", false)

	require.NoError(t, err)
	assert.Equal(t, []string{"C.txt", "a.txt", "b.txt"}, names, "names should be sorted by byte value")
}

// TestScandir_Success_ExtensionWildcard tests that a ".*" suffix also matches
// names without an extension.
func TestScandir_Success_ExtensionWildcard(t *testing.T) {
	t.Parallel()

	dir := newTestDir(t, "data", "data.csv", "data.", "database")
	h := NewHandler(portability.NewHandler(portability.ModeNone, &schema.OS{}, &schema.Unix{}))

	names, err := h.Scandir(dir, "data.*", false)

	require.NoError(t, err)
	assert.Equal(t, []string{"data", "data.", "data.csv"}, names)
}

// TestScandir_Success_NoMatches tests that an empty result is not an error.
func TestScandir_Success_NoMatches(t *testing.T) {
	t.Parallel()

	dir := newTestDir(t, "a.txt")
	h := NewHandler(portability.NewHandler(portability.ModeNone, &schema.OS{}, &schema.Unix{}))

	names, err := h.Scandir(dir, "*.md", false)

	require.NoError(t, err)
	assert.Empty(t, names)
}

// TestScandir_Success_IgnoreCase tests case-insensitive matching together
// with a case-resolved directory.
func TestScandir_Success_IgnoreCase(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "Reports")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Q1.CSV"), nil, 0o644))

	h := NewHandler(portability.NewHandler(portability.ModeAll, &schema.OS{}, &schema.Unix{}))

	names, err := h.Scandir(filepath.Join(root, "reports"), "q1.csv", true)

	require.NoError(t, err)
	assert.Equal(t, []string{"Q1.CSV"}, names)
}

// TestScandir_Fail_Missing tests that a missing directory reports ENOENT.
func TestScandir_Fail_Missing(t *testing.T) {
	t.Parallel()

	h := NewHandler(portability.NewHandler(portability.ModeNone, &schema.OS{}, &schema.Unix{}))

	_, err := h.Scandir(filepath.Join(t.TempDir(), "missing"), "*", false)

	require.ErrorIs(t, err, unix.ENOENT)
}

// TestScandir_Fail_Denied tests that an existing but unreadable directory
// reports EACCES.
func TestScandir_Fail_Denied(t *testing.T) {
	t.Parallel()

	h := NewHandler(&deniedProvider{})

	_, err := h.Scandir(t.TempDir(), "*", false)

	require.ErrorIs(t, err, unix.EACCES)
}
