package w32file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertwitch/w32io/internal/configuration"
	"github.com/desertwitch/w32io/internal/handles"
	"github.com/desertwitch/w32io/internal/portability"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
	"github.com/stretchr/testify/require"
)

func collectFind(t *testing.T, h *Handler, pattern string) []FindData {
	t.Helper()

	handle, first, err := h.FindFirst(pattern)
	require.NoError(t, err)

	found := []FindData{first}

	for {
		data, err := h.FindNext(handle)
		if err != nil {
			require.ErrorIs(t, err, winerr.NoMoreFiles)

			break
		}
		found = append(found, data)
	}

	require.NoError(t, h.FindClose(handle))

	return found
}

func findNames(found []FindData) []string {
	names := make([]string, 0, len(found))
	for i := range found {
		names = append(names, found[i].Name())
	}

	return names
}

// TestFind tests a search with [Handler.FindFirst] and [Handler.FindNext].
func TestFind(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, configuration.Options{}, nil)
	dir := t.TempDir()

	writeTestFile(t, filepath.Join(dir, "b.txt"), "bb")
	writeTestFile(t, filepath.Join(dir, "a.txt"), "a")
	writeTestFile(t, filepath.Join(dir, "c.log"), "c")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.txt"), 0o755))

	found := collectFind(t, h, filepath.Join(dir, "*.txt"))

	require.Equal(t, []string{"a.txt", "b.txt", "d.txt"}, findNames(found))
	require.Equal(t, int64(1), found[0].Size())
	require.Equal(t, int64(2), found[1].Size())
	require.Equal(t, schema.AttributeDirectory, found[2].Attributes)
	require.Zero(t, found[2].Size(), "directories have no size")
	require.Equal(t, 0, h.OpenHandles())
}

// TestFind_Success_Wildcards tests '?' and the ".*" suffix.
func TestFind_Success_Wildcards(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, configuration.Options{}, nil)
	dir := t.TempDir()

	writeTestFile(t, filepath.Join(dir, "data"), "x")
	writeTestFile(t, filepath.Join(dir, "data.bin"), "x")
	writeTestFile(t, filepath.Join(dir, "dat"), "x")

	require.Equal(t, []string{"data", "data.bin"}, findNames(collectFind(t, h, filepath.Join(dir, "data.*"))))
	require.Equal(t, []string{"dat"}, findNames(collectFind(t, h, filepath.Join(dir, "d?t"))))
}

// TestFind_Success_IgnoreCase tests searching with case-insensitive
// path mapping.
func TestFind_Success_IgnoreCase(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, configuration.Options{IOMap: portability.ModeAll}, nil)
	dir := t.TempDir()

	writeTestFile(t, filepath.Join(dir, "Readme.MD"), "x")

	require.Equal(t, []string{"Readme.MD"}, findNames(collectFind(t, h, filepath.Join(dir, "readme.*"))))
}

// TestFind_Fail tests the failures of [Handler.FindFirst].
func TestFind_Fail(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, configuration.Options{}, nil)
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "only"), "x")

	tests := []struct {
		name    string
		pattern string
		expect  winerr.Code
	}{
		{"Fail_Empty", "", winerr.PathNotFound},
		{"Fail_TrailingSeparator", dir + "/", winerr.FileNotFound},
		{"Fail_NoMatch", filepath.Join(dir, "*.none"), winerr.FileNotFound},
		{"Fail_MissingDirectory", filepath.Join(dir, "nodir", "*"), winerr.PathNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle, _, err := h.FindFirst(tt.pattern)
			require.ErrorIs(t, err, tt.expect)
			require.Equal(t, handles.Invalid, handle)
		})
	}

	require.Equal(t, 0, h.OpenHandles())
}

// TestFind_Fail_WrongHandle tests search operations on other handles.
func TestFind_Fail_WrongHandle(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, configuration.Options{}, nil)
	path := filepath.Join(t.TempDir(), "f")
	writeTestFile(t, path, "x")

	handle := createFile(t, h, path, schema.GenericRead, shareAll, schema.OpenExisting)

	_, err := h.FindNext(handle)
	require.ErrorIs(t, err, winerr.InvalidHandle)
	require.ErrorIs(t, h.FindClose(handle), winerr.InvalidHandle)

	_, err = h.FindNext(handles.Invalid)
	require.ErrorIs(t, err, winerr.InvalidHandle)

	require.Equal(t, 1, h.OpenHandles(), "file handle stays open")
}

// TestFind_Success_Vanished tests that entries removed during a search are
// skipped.
func TestFind_Success_Vanished(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, configuration.Options{}, nil)
	dir := t.TempDir()

	for _, name := range []string{"a", "b", "c"} {
		writeTestFile(t, filepath.Join(dir, name), "x")
	}

	handle, first, err := h.FindFirst(filepath.Join(dir, "*"))
	require.NoError(t, err)
	require.Equal(t, "a", first.Name())

	require.NoError(t, os.Remove(filepath.Join(dir, "b")))

	next, err := h.FindNext(handle)
	require.NoError(t, err)
	require.Equal(t, "c", next.Name())

	_, err = h.FindNext(handle)
	require.ErrorIs(t, err, winerr.NoMoreFiles)

	require.NoError(t, h.FindClose(handle))
}

// TestFindData_Name tests the truncation of long names.
func TestFindData_Name(t *testing.T) {
	t.Parallel()

	var data FindData

	setFileName(&data.FileName, "short")
	require.Equal(t, "short", data.Name())

	long := strings.Repeat("x", 300)
	setFileName(&data.FileName, long)
	require.Equal(t, long[:schema.MaxPath-1], data.Name())
	require.Zero(t, data.FileName[schema.MaxPath-1])
}
