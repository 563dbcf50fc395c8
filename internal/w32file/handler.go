// Package w32file implements Windows file-I/O semantics on top of POSIX
// descriptors. Opened resources are addressed by opaque handles, opens are
// arbitrated by emulated share modes and failures are reported as Win32
// error codes, both as returned errors and through a last-error slot.
package w32file

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/desertwitch/w32io/internal/configuration"
	"github.com/desertwitch/w32io/internal/enumerate"
	"github.com/desertwitch/w32io/internal/handles"
	"github.com/desertwitch/w32io/internal/locking"
	"github.com/desertwitch/w32io/internal/portability"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/share"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

type osProvider interface {
	Getwd() (string, error)
	ReadDir(name string) ([]os.DirEntry, error)
}

type unixProvider interface {
	Access(path string, mode uint32) error
	BlockDeviceSize(fd int) (uint64, error)
	Chdir(path string) error
	Chmod(path string, mode uint32) error
	Close(fd int) error
	Fadvise(fd int, offset int64, length int64, advice int) error
	FcntlFlock(fd uintptr, cmd int, lk *unix.Flock_t) error
	FcntlInt(fd uintptr, cmd int, arg int) (int, error)
	Fstat(fd int, stat *unix.Stat_t) error
	Fsync(fd int) error
	Ftruncate(fd int, length int64) error
	Getegid() int
	Geteuid() int
	Lstat(path string, stat *unix.Stat_t) error
	Mkdir(path string, mode uint32) error
	Open(path string, mode int, perm uint32) (int, error)
	Pipe2(p []int, flags int) error
	Read(fd int, p []byte) (int, error)
	Rename(oldpath, newpath string) error
	Rmdir(path string) error
	Seek(fd int, offset int64, whence int) (int64, error)
	Stat(path string, stat *unix.Stat_t) error
	Statfs(path string, buf *unix.Statfs_t) error
	Unlink(path string) error
	UtimesNano(path string, times []unix.Timespec) error
	Write(fd int, p []byte) (int, error)
}

// Handler is the principal implementation of the file I/O layer. All of its
// methods are safe for concurrent use, but operations moving the position of
// one handle must be serialized by the caller.
type Handler struct {
	opts        configuration.Options
	osHandler   osProvider
	unixHandler unixProvider
	fsHandler   *portability.Handler
	lockHandler *locking.Manager
	enumHandler *enumerate.Handler
	shares      *share.Table
	resources   *handles.Table[resource]

	stdMutex sync.Mutex
	std      map[schema.StdHandleID]handles.Handle

	lastError winerr.Slot
}

// NewHandler returns a pointer to a new [Handler] running with opts.
func NewHandler(opts configuration.Options, osHandler osProvider, unixHandler unixProvider) *Handler {
	if opts.FDReserve <= 0 {
		opts.FDReserve = configuration.DefaultFDReserve
	}

	fsHandler := portability.NewHandler(opts.IOMap, osHandler, unixHandler)

	return &Handler{
		opts:        opts,
		osHandler:   osHandler,
		unixHandler: unixHandler,
		fsHandler:   fsHandler,
		lockHandler: locking.NewManager(unixHandler),
		enumHandler: enumerate.NewHandler(fsHandler),
		shares:      share.NewTable(),
		resources:   handles.NewTable[resource](),
		std:         make(map[schema.StdHandleID]handles.Handle),
	}
}

// LastError returns the code of the most recent failure.
func (h *Handler) LastError() winerr.Code {
	return h.lastError.Get()
}

// OpenHandles returns the number of handles currently open.
func (h *Handler) OpenHandles() int {
	return h.resources.Len()
}

// fail records code in the last-error slot and returns it wrapped with the
// operation and, where there is one, the underlying cause.
func (h *Handler) fail(op string, code winerr.Code, cause error) error {
	h.lastError.Set(code)

	slog.Debug("File operation failed", "op", op, "code", code, "err", cause)

	if cause == nil || errors.Is(cause, code) {
		return fmt.Errorf("(w32file-%s) %w", op, code)
	}

	return fmt.Errorf("(w32file-%s) %w: %w", op, code, cause)
}

// failErr is [Handler.fail] with the code taken from err.
func (h *Handler) failErr(op string, err error) error {
	return h.fail(op, winerr.CodeOf(err), err)
}

// failPath is [Handler.fail] for an error of a call on path. ENOENT becomes
// FILE_NOT_FOUND if the parent directory exists, else PATH_NOT_FOUND.
func (h *Handler) failPath(op string, path string, err error) error {
	return h.failPathIn(op, h.fsHandler.Dirname(path), err)
}

// failPathIn is [Handler.failPath] with the parent directory given.
func (h *Handler) failPathIn(op string, dir string, err error) error {
	if !errors.Is(err, unix.ENOENT) {
		return h.failErr(op, err)
	}

	if h.fsHandler.Access(dir, unix.F_OK) == nil {
		return h.fail(op, winerr.FileNotFound, err)
	}

	return h.fail(op, winerr.PathNotFound, err)
}

// lookup resolves a handle, treating unknown handles as caller defects.
func (h *Handler) lookup(op string, handle handles.Handle) (resource, error) {
	res, ok := h.resources.Lookup(handle)
	if !ok {
		slog.Warn("Operation on unknown handle", "op", op, "handle", handle)

		return nil, h.fail(op, winerr.InvalidHandle, nil)
	}

	return res, nil
}

// checkReserve rejects descriptors at or beyond the configured reserve.
func (h *Handler) checkReserve(fd int) error {
	if fd >= h.opts.FDReserve {
		slog.Debug("Descriptor beyond reserve", "fd", fd, "reserve", h.opts.FDReserve)

		return winerr.TooManyOpenFiles
	}

	return nil
}

// statPath stats path, falling back to lstat on the given errnos so that
// dangling symlinks are still found.
func (h *Handler) statPath(path string, fallback ...unix.Errno) (*schema.Metadata, error) {
	var stat unix.Stat_t

	err := h.fsHandler.Stat(path, &stat)
	for _, errno := range fallback {
		if errors.Is(err, errno) {
			err = h.fsHandler.Lstat(path, &stat)

			break
		}
	}
	if err != nil {
		return nil, err
	}

	return schema.MetadataFromStat(&stat), nil
}

// Shutdown closes every open handle. It is meant for process teardown.
func (h *Handler) Shutdown() {
	for _, handle := range h.resources.Handles() {
		_ = h.Close(handle)
	}

	h.shares.Reset()
}
