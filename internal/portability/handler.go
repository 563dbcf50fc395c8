package portability

import (
	"errors"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
}

type unixProvider interface {
	Access(path string, mode uint32) error
	Chdir(path string) error
	Chmod(path string, mode uint32) error
	Lstat(path string, stat *unix.Stat_t) error
	Mkdir(path string, mode uint32) error
	Open(path string, mode int, perm uint32) (int, error)
	Rename(oldpath, newpath string) error
	Rmdir(path string) error
	Stat(path string, stat *unix.Stat_t) error
	Unlink(path string) error
	UtimesNano(path string, times []unix.Timespec) error
}

// Handler wraps path-based syscalls so that a failure of the "not found"
// class is retried once with the path found by its [Resolver]. A second
// failure, or no match, surfaces the original error unmodified.
type Handler struct {
	*Resolver
	osHandler   osProvider
	unixHandler unixProvider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(mode Mode, osHandler osProvider, unixHandler unixProvider) *Handler {
	return &Handler{
		Resolver:    NewResolver(mode, osHandler, unixHandler),
		osHandler:   osHandler,
		unixHandler: unixHandler,
	}
}

//nolint:gochecknoglobals
var (
	retryNotFound        = []unix.Errno{unix.ENOENT, unix.ENOTDIR}
	retryNotFoundOrLong  = []unix.Errno{unix.ENOENT, unix.ENOTDIR, unix.ENAMETOOLONG}
	retryNotFoundOrIsDir = []unix.Errno{unix.ENOENT, unix.ENOTDIR, unix.EISDIR}
	retryRename          = []unix.Errno{unix.EISDIR, unix.ENAMETOOLONG, unix.ENOENT, unix.ENOTDIR, unix.EXDEV}
)

func isOneOf(err error, errnos []unix.Errno) bool {
	for _, errno := range errnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	return false
}

// retry re-runs fn with the resolved path if err qualifies for it.
func (h *Handler) retry(op string, path string, err error, errnos []unix.Errno, fn func(located string) error) error {
	if err == nil || !h.mode.Enabled() || !isOneOf(err, errnos) {
		return err
	}

	located, ok := h.Find(path, true)
	if !ok {
		return err
	}

	slog.Debug("Retrying with portable path", "op", op, "path", path, "located", located, "err", err)

	return fn(located)
}

// Open opens a file. With O_CREAT the parent directories are resolved before
// the call, otherwise the call is retried on ENOENT and ENOTDIR.
func (h *Handler) Open(path string, flags int, perm uint32) (int, error) {
	if flags&unix.O_CREAT != 0 {
		if located, ok := h.Find(path, false); ok {
			path = located
		}

		return h.unixHandler.Open(path, flags, perm)
	}

	fd, err := h.unixHandler.Open(path, flags, perm)
	err = h.retry("open", path, err, retryNotFound, func(located string) error {
		var rerr error
		fd, rerr = h.unixHandler.Open(located, flags, perm)

		return rerr
	})

	return fd, err
}

// Access checks the accessibility of a path.
func (h *Handler) Access(path string, mode uint32) error {
	err := h.unixHandler.Access(path, mode)

	return h.retry("access", path, err, retryNotFound, func(located string) error {
		return h.unixHandler.Access(located, mode)
	})
}

// Chmod changes the permissions of a path.
func (h *Handler) Chmod(path string, mode uint32) error {
	err := h.unixHandler.Chmod(path, mode)

	return h.retry("chmod", path, err, retryNotFound, func(located string) error {
		return h.unixHandler.Chmod(located, mode)
	})
}

// UtimesNano changes the access and modification times of a path.
func (h *Handler) UtimesNano(path string, times []unix.Timespec) error {
	err := h.unixHandler.UtimesNano(path, times)

	return h.retry("utimes", path, err, []unix.Errno{unix.ENOENT}, func(located string) error {
		return h.unixHandler.UtimesNano(located, times)
	})
}

// Unlink removes a file.
func (h *Handler) Unlink(path string) error {
	err := h.unixHandler.Unlink(path)

	return h.retry("unlink", path, err, retryNotFoundOrIsDir, func(located string) error {
		return h.unixHandler.Unlink(located)
	})
}

// Rename renames oldpath to newpath. The parents of newpath are resolved
// first; the source is resolved only if that rename fails.
func (h *Handler) Rename(oldpath, newpath string) error {
	located, ok := h.Find(newpath, false)
	if !ok {
		return h.unixHandler.Rename(oldpath, newpath)
	}

	err := h.unixHandler.Rename(oldpath, located)

	return h.retry("rename", oldpath, err, retryRename, func(locatedOld string) error {
		return h.unixHandler.Rename(locatedOld, located)
	})
}

// Stat stats a path, following symbolic links.
func (h *Handler) Stat(path string, stat *unix.Stat_t) error {
	err := h.unixHandler.Stat(path, stat)

	return h.retry("stat", path, err, retryNotFound, func(located string) error {
		return h.unixHandler.Stat(located, stat)
	})
}

// Lstat stats a path without following symbolic links.
func (h *Handler) Lstat(path string, stat *unix.Stat_t) error {
	err := h.unixHandler.Lstat(path, stat)

	return h.retry("lstat", path, err, retryNotFound, func(located string) error {
		return h.unixHandler.Lstat(located, stat)
	})
}

// Mkdir creates a directory, resolving its parents first.
func (h *Handler) Mkdir(path string, mode uint32) error {
	if located, ok := h.Find(path, false); ok {
		path = located
	}

	return h.unixHandler.Mkdir(path, mode)
}

// Rmdir removes a directory.
func (h *Handler) Rmdir(path string) error {
	err := h.unixHandler.Rmdir(path)

	return h.retry("rmdir", path, err, retryNotFoundOrLong, func(located string) error {
		return h.unixHandler.Rmdir(located)
	})
}

// Chdir changes the working directory.
func (h *Handler) Chdir(path string) error {
	err := h.unixHandler.Chdir(path)

	return h.retry("chdir", path, err, retryNotFoundOrLong, func(located string) error {
		return h.unixHandler.Chdir(located)
	})
}

// ReadDir lists a directory.
func (h *Handler) ReadDir(path string) ([]os.DirEntry, error) {
	entries, err := h.osHandler.ReadDir(path)
	err = h.retry("readdir", path, err, retryNotFoundOrLong, func(located string) error {
		var rerr error
		entries, rerr = h.osHandler.ReadDir(located)

		return rerr
	})

	return entries, err
}
