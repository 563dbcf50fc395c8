package w32file

import (
	"log/slog"
	"path"
	"strings"
	"unicode/utf16"

	"github.com/desertwitch/w32io/internal/filetime"
	"github.com/desertwitch/w32io/internal/handles"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

// FindData describes one entry found by a directory search.
type FindData struct {
	Attributes     schema.Attributes
	CreationTime   filetime.FileTime
	LastAccessTime filetime.FileTime
	LastWriteTime  filetime.FileTime
	FileSizeHigh   uint32
	FileSizeLow    uint32

	// FileName is the NUL-terminated UTF-16 name, truncated to fit.
	FileName [schema.MaxPath]uint16
}

// Name returns [FindData.FileName] as a string.
func (f *FindData) Name() string {
	n := 0
	for n < len(f.FileName) && f.FileName[n] != 0 {
		n++
	}

	return string(utf16.Decode(f.FileName[:n]))
}

// Size returns the file size from its two words.
func (f *FindData) Size() int64 {
	return int64(f.FileSizeHigh)<<32 | int64(f.FileSizeLow)
}

func setFileName(dst *[schema.MaxPath]uint16, name string) {
	encoded := utf16.Encode([]rune(name))
	if len(encoded) > schema.MaxPath-1 {
		encoded = encoded[:schema.MaxPath-1]
	}

	*dst = [schema.MaxPath]uint16{}
	copy(dst[:], encoded)
}

// FindFirst starts a search for the entries matching pattern, a directory
// followed by a name that may contain '*' and '?' wildcards. It returns the
// search handle together with the first entry.
func (h *Handler) FindFirst(pattern string) (handles.Handle, FindData, error) {
	if pattern == "" {
		return handles.Invalid, FindData{}, h.fail("find-first", winerr.PathNotFound, nil)
	}

	if strings.HasSuffix(h.fsHandler.Normalize(pattern), "/") {
		return handles.Invalid, FindData{}, h.fail("find-first", winerr.FileNotFound, nil)
	}

	dir := h.fsHandler.Dirname(pattern)
	entry := h.fsHandler.Basename(pattern)

	names, err := h.enumHandler.Scandir(dir, entry, h.opts.IOMap.Case())
	if err != nil {
		return handles.Invalid, FindData{}, h.failPathIn("find-first", dir, err)
	}

	if len(names) == 0 {
		return handles.Invalid, FindData{}, h.fail("find-first", winerr.FileNotFound, nil)
	}

	handle := h.resources.Insert(&findResource{dir: dir, names: names})

	data, err := h.FindNext(handle)
	if err != nil {
		_ = h.FindClose(handle)

		return handles.Invalid, FindData{}, h.fail("find-first", winerr.NoMoreFiles, nil)
	}

	return handle, data, nil
}

// FindNext returns the next entry of a search. Entries that disappeared
// since the search started are skipped, and [winerr.NoMoreFiles] ends the
// search.
func (h *Handler) FindNext(handle handles.Handle) (FindData, error) {
	find, err := h.lookupFind("find-next", handle)
	if err != nil {
		return FindData{}, err
	}

	find.mu.Lock()
	defer find.mu.Unlock()

	for {
		name, ok := find.next()
		if !ok {
			return FindData{}, h.fail("find-next", winerr.NoMoreFiles, nil)
		}

		full := path.Join(find.dir, name)

		m, isLink, err := h.linkStat(full, unix.ENOENT)
		if err != nil {
			slog.Debug("Skipped vanished search entry", "path", full, "err", err)

			continue
		}

		data := FindData{
			Attributes:     h.attributesOf(full, m, isLink),
			CreationTime:   creationTicks(m).FileTime(),
			LastAccessTime: filetime.FromTimespec(m.AccessedAt).FileTime(),
			LastWriteTime:  filetime.FromTimespec(m.ModifiedAt).FileTime(),
		}

		if data.Attributes&schema.AttributeDirectory == 0 {
			data.FileSizeHigh = uint32(m.Size >> 32) //nolint:gosec
			data.FileSizeLow = uint32(m.Size)        //nolint:gosec
		}

		setFileName(&data.FileName, name)

		return data, nil
	}
}

// FindClose ends a search started by [Handler.FindFirst].
func (h *Handler) FindClose(handle handles.Handle) error {
	if _, err := h.lookupFind("find-close", handle); err != nil {
		return err
	}

	return h.Close(handle)
}

func (h *Handler) lookupFind(op string, handle handles.Handle) (*findResource, error) {
	res, err := h.lookup(op, handle)
	if err != nil {
		return nil, err
	}

	find, ok := res.(*findResource)
	if !ok {
		slog.Warn("Search operation on non-search handle", "op", op, "handle", handle, "kind", res.Kind())

		return nil, h.fail(op, winerr.InvalidHandle, nil)
	}

	return find, nil
}
