package w32file

import (
	"errors"
	"log/slog"

	"github.com/desertwitch/w32io/internal/handles"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/share"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

// openFlags converts requested access and disposition to open(2) flags.
func openFlags(access schema.Access, disposition schema.Disposition) (int, error) {
	var flags int

	switch {
	case access&schema.GenericAll != 0:
		flags = unix.O_RDWR
	case access&(schema.GenericRead|schema.GenericWrite) == schema.GenericRead|schema.GenericWrite:
		flags = unix.O_RDWR
	case access&schema.GenericWrite != 0:
		flags = unix.O_WRONLY
	default:
		flags = unix.O_RDONLY
	}

	switch disposition {
	case schema.CreateNew:
		flags |= unix.O_CREAT | unix.O_EXCL
	case schema.CreateAlways:
		flags |= unix.O_CREAT | unix.O_TRUNC
	case schema.OpenExisting:
	case schema.OpenAlways:
		flags |= unix.O_CREAT
	case schema.TruncateExisting:
		flags |= unix.O_TRUNC
	default:
		return 0, winerr.InvalidParameter
	}

	return flags | unix.O_CLOEXEC, nil
}

// Create opens or creates name and returns a handle to it. The kind of the
// handle follows what was opened: FIFOs become pipes, character devices
// consoles and everything else files.
func (h *Handler) Create(name string, access schema.Access, shareMode schema.ShareMode, disposition schema.Disposition, attrs schema.Attributes) (handles.Handle, error) {
	if attrs&schema.AttributeEncrypted != 0 {
		return handles.Invalid, h.fail("create", winerr.EncryptionFailed, nil)
	}

	if name == "" {
		return handles.Invalid, h.fail("create", winerr.InvalidName, nil)
	}

	flags, err := openFlags(access, disposition)
	if err != nil {
		return handles.Invalid, h.fail("create", winerr.CodeOf(err), nil)
	}

	perms := uint32(0o666)
	if attrs&schema.AttributeTemporary != 0 {
		perms = 0o600
	}

	slog.Debug("Opening file",
		"path", name,
		"access", access,
		"share", shareMode,
		"disposition", disposition,
		"attrs", attrs,
	)

	fd, err := h.fsHandler.Open(name, flags, perms)
	if errors.Is(err, unix.EISDIR) {
		// Directories cannot be opened for writing, but can be for
		// everything that works by path.
		fd, err = h.fsHandler.Open(name, flags&^(unix.O_RDWR|unix.O_WRONLY), perms)
	}
	if err != nil {
		return handles.Invalid, h.failPath("create", name, err)
	}

	if err := h.checkReserve(fd); err != nil {
		_ = h.unixHandler.Close(fd)

		return handles.Invalid, h.fail("create", winerr.TooManyOpenFiles, nil)
	}

	var stat unix.Stat_t
	if err := h.unixHandler.Fstat(fd, &stat); err != nil {
		_ = h.unixHandler.Close(fd)

		return handles.Invalid, h.failErr("create", err)
	}

	id := share.IdentityOf(schema.MetadataFromStat(&stat))
	if err := h.shares.AcquireForOpen(id, shareMode, access); err != nil {
		_ = h.unixHandler.Close(fd)

		return handles.Invalid, h.failErr("create", err)
	}

	if attrs&schema.FlagSequentialScan != 0 {
		_ = h.unixHandler.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
	}
	if attrs&schema.FlagRandomAccess != 0 {
		_ = h.unixHandler.Fadvise(fd, 0, 0, unix.FADV_RANDOM)
	}

	d := descriptor{
		h:        h,
		fd:       fd,
		path:     name,
		access:   access,
		share:    shareMode,
		attrs:    attrs,
		shareID:  id,
		hasShare: true,
	}

	var res resource

	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFIFO:
		d.path = ""
		res = &pipeResource{descriptor: d}
	case unix.S_IFCHR:
		res = &consoleResource{descriptor: d}
	default:
		res = &fileResource{descriptor: d}
	}

	handle := h.resources.Insert(res)

	slog.Debug("Opened file", "path", name, "handle", handle, "kind", res.Kind(), "fd", fd)

	return handle, nil
}

// StdHandle returns the handle of a standard stream. It is created on first
// use and shared by later calls until it is closed.
func (h *Handler) StdHandle(id schema.StdHandleID) (handles.Handle, error) {
	var (
		fd   int
		name string
	)

	switch id {
	case schema.StdInputHandle:
		fd, name = 0, "<stdin>"
	case schema.StdOutputHandle:
		fd, name = 1, "<stdout>"
	case schema.StdErrorHandle:
		fd, name = 2, "<stderr>"
	default:
		return handles.Invalid, h.fail("std-handle", winerr.InvalidParameter, nil)
	}

	h.stdMutex.Lock()
	defer h.stdMutex.Unlock()

	if handle, ok := h.std[id]; ok {
		return handle, nil
	}

	flags, err := h.unixHandler.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return handles.Invalid, h.failErr("std-handle", err)
	}

	var access schema.Access

	switch flags & unix.O_ACCMODE {
	case unix.O_RDONLY:
		access = schema.GenericRead
	case unix.O_WRONLY:
		access = schema.GenericWrite
	case unix.O_RDWR:
		access = schema.GenericRead | schema.GenericWrite
	}

	if fd == 0 {
		access &^= schema.GenericWrite
	}

	handle := h.resources.Insert(&consoleResource{
		descriptor: descriptor{
			h:      h,
			fd:     fd,
			path:   name,
			access: access,
		},
	})
	h.std[id] = handle

	return handle, nil
}

// forgetStd drops a closed handle from the standard stream cache.
func (h *Handler) forgetStd(handle handles.Handle) {
	h.stdMutex.Lock()
	defer h.stdMutex.Unlock()

	for id, cached := range h.std {
		if cached == handle {
			delete(h.std, id)
		}
	}
}

// CreatePipe creates an anonymous pipe and returns handles to its read and
// write ends.
func (h *Handler) CreatePipe() (readHandle handles.Handle, writeHandle handles.Handle, err error) {
	fds := make([]int, 2)
	if err := h.unixHandler.Pipe2(fds, unix.O_CLOEXEC); err != nil {
		return handles.Invalid, handles.Invalid, h.failErr("pipe", err)
	}

	if h.checkReserve(fds[0]) != nil || h.checkReserve(fds[1]) != nil {
		_ = h.unixHandler.Close(fds[0])
		_ = h.unixHandler.Close(fds[1])

		return handles.Invalid, handles.Invalid, h.fail("pipe", winerr.TooManyOpenFiles, nil)
	}

	readHandle = h.resources.Insert(&pipeResource{
		descriptor: descriptor{h: h, fd: fds[0], access: schema.GenericRead},
	})
	writeHandle = h.resources.Insert(&pipeResource{
		descriptor: descriptor{h: h, fd: fds[1], access: schema.GenericWrite},
	})

	slog.Debug("Created pipe", "read", readHandle, "write", writeHandle, "fds", fds)

	return readHandle, writeHandle, nil
}
