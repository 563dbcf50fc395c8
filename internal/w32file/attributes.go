package w32file

import (
	"strings"

	"github.com/desertwitch/w32io/internal/filetime"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

// FileInfo is the result of [Handler.GetAttributesEx].
type FileInfo struct {
	Attributes     schema.Attributes
	CreationTime   filetime.Ticks
	LastAccessTime filetime.Ticks
	LastWriteTime  filetime.Ticks
	Size           int64
}

// isWritable reports whether the caller may write to the file. The mode
// bits are consulted first and access(2) decides the rest.
func (h *Handler) isWritable(path string, m *schema.Metadata) bool {
	switch {
	case m.Mode&unix.S_IWOTH != 0:
		return true
	case int(m.UID) == h.unixHandler.Geteuid() && m.Mode&unix.S_IWUSR != 0:
		return true
	case int(m.GID) == h.unixHandler.Getegid() && m.Mode&unix.S_IWGRP != 0:
		return true
	}

	return h.fsHandler.Access(path, unix.W_OK) == nil
}

// attributesOf derives Windows attributes from the stat of path and whether
// path itself is a symbolic link.
func (h *Handler) attributesOf(path string, m *schema.Metadata, isLink bool) schema.Attributes {
	mode := m.Mode
	if mode&unix.S_IFMT == unix.S_IFSOCK {
		mode &^= unix.S_IFSOCK
	}

	hidden := strings.HasPrefix(h.fsHandler.Basename(path), ".")

	var attrs schema.Attributes

	switch {
	case mode&unix.S_IFMT == unix.S_IFDIR:
		attrs = schema.AttributeDirectory
		if !h.isWritable(path, m) {
			attrs |= schema.AttributeReadonly
		}
		if hidden {
			attrs |= schema.AttributeHidden
		}

	case !h.isWritable(path, m):
		attrs = schema.AttributeReadonly
		if hidden {
			attrs |= schema.AttributeHidden
		}

	case hidden:
		attrs = schema.AttributeHidden

	default:
		attrs = schema.AttributeNormal
	}

	if isLink {
		attrs |= schema.AttributeReparsePoint
	}

	return attrs
}

// linkStat stats path itself and the file it refers to, falling back to
// the link itself on the given errnos.
func (h *Handler) linkStat(path string, fallback ...unix.Errno) (*schema.Metadata, bool, error) {
	m, err := h.statPath(path, fallback...)
	if err != nil {
		return nil, false, err
	}

	var link unix.Stat_t
	if err := h.fsHandler.Lstat(path, &link); err != nil {
		return nil, false, err
	}

	return m, link.Mode&unix.S_IFMT == unix.S_IFLNK, nil
}

// GetAttributes returns the attributes of name, or
// [schema.InvalidFileAttributes] with an error.
func (h *Handler) GetAttributes(name string) (schema.Attributes, error) {
	if name == "" {
		return schema.InvalidFileAttributes, h.fail("attributes", winerr.InvalidName, nil)
	}

	m, isLink, err := h.linkStat(name, unix.ENOENT, unix.ELOOP)
	if err != nil {
		return schema.InvalidFileAttributes, h.failPath("attributes", name, err)
	}

	return h.attributesOf(name, m, isLink), nil
}

// GetAttributesEx returns attributes, times and size of name. Directories
// have size zero.
func (h *Handler) GetAttributesEx(name string) (FileInfo, error) {
	if name == "" {
		return FileInfo{}, h.fail("attributes-ex", winerr.InvalidName, nil)
	}

	m, isLink, err := h.linkStat(name, unix.ENOENT)
	if err != nil {
		return FileInfo{}, h.failPath("attributes-ex", name, err)
	}

	info := FileInfo{
		Attributes:     h.attributesOf(name, m, isLink),
		CreationTime:   creationTicks(m),
		LastAccessTime: filetime.FromTimespec(m.AccessedAt),
		LastWriteTime:  filetime.FromTimespec(m.ModifiedAt),
	}
	if info.Attributes&schema.AttributeDirectory == 0 {
		info.Size = m.Size
	}

	return info, nil
}

// creationTicks stands in the earlier of modification and status change
// time for the creation time POSIX lacks.
func creationTicks(m *schema.Metadata) filetime.Ticks {
	if m.ModifiedAt.Sec < m.ChangedAt.Sec {
		return filetime.FromTimespec(m.ModifiedAt)
	}

	return filetime.FromTimespec(m.ChangedAt)
}

// SetAttributes applies the attributes of attrs that have a POSIX
// equivalent. [schema.AttributeReadonly] removes every write permission,
// its absence grants the owner write permission, and
// [schema.AttributeUnixExecutable] adds execute wherever read is granted.
// Other attributes are ignored.
func (h *Handler) SetAttributes(name string, attrs schema.Attributes) error {
	if name == "" {
		return h.fail("set-attributes", winerr.InvalidName, nil)
	}

	m, err := h.statPath(name, unix.ENOENT)
	if err != nil {
		return h.failPath("set-attributes", name, err)
	}

	mode := m.Perms | unix.S_IWUSR
	if attrs&schema.AttributeReadonly != 0 {
		mode = m.Perms &^ (unix.S_IWUSR | unix.S_IWGRP | unix.S_IWOTH)
	}

	if err := h.fsHandler.Chmod(name, mode); err != nil {
		return h.failErr("set-attributes", err)
	}

	if attrs&schema.AttributeUnixExecutable != 0 {
		var exec uint32
		if m.Perms&unix.S_IRUSR != 0 {
			exec |= unix.S_IXUSR
		}
		if m.Perms&unix.S_IRGRP != 0 {
			exec |= unix.S_IXGRP
		}
		if m.Perms&unix.S_IROTH != 0 {
			exec |= unix.S_IXOTH
		}

		if err := h.fsHandler.Chmod(name, m.Perms|exec); err != nil {
			return h.failErr("set-attributes", err)
		}
	}

	return nil
}
