// Package locking acquires and releases advisory byte-range locks on file
// descriptors, treating filesystems without lock support as always granting
// the lock.
package locking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desertwitch/w32io/internal/eintr"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

type flockProvider interface {
	FcntlFlock(fd uintptr, cmd int, lk *unix.Flock_t) error
}

// Manager places advisory write locks on descriptor regions.
type Manager struct {
	unixHandler flockProvider
}

// NewManager returns a pointer to a new [Manager].
func NewManager(unixHandler flockProvider) *Manager {
	return &Manager{
		unixHandler: unixHandler,
	}
}

// Lock acquires a non-blocking write lock on [offset, offset+length) of fd.
// A filesystem without lock support counts as success. Any other failure,
// including contention, is a [winerr.LockViolation].
func (m *Manager) Lock(fd int, offset int64, length int64) error {
	if offset < 0 || length < 0 {
		return winerr.InvalidParameter
	}

	return m.setLock(fd, unix.F_WRLCK, offset, length)
}

// Unlock releases a lock previously placed by [Manager.Lock].
func (m *Manager) Unlock(fd int, offset int64, length int64) error {
	return m.setLock(fd, unix.F_UNLCK, offset, length)
}

func (m *Manager) setLock(fd int, lockType int16, offset int64, length int64) error {
	lk := &unix.Flock_t{
		Type:   lockType,
		Whence: int16(unix.SEEK_SET),
		Start:  offset,
		Len:    length,
	}

	err := eintr.Run(context.Background(), func() error {
		return m.unixHandler.FcntlFlock(uintptr(fd), unix.F_SETLK, lk) //nolint:gosec
	})
	if err == nil {
		return nil
	}

	if unsupported(err) {
		slog.Debug("Locks unsupported, treating region lock as granted",
			"fd", fd,
			"offset", offset,
			"length", length,
			"err", err,
		)

		return nil
	}

	slog.Debug("Region lock failed",
		"fd", fd,
		"type", lockType,
		"offset", offset,
		"length", length,
		"err", err,
	)

	return winerr.LockViolation
}

// unsupported reports whether err means the filesystem cannot lock at all.
func unsupported(err error) bool {
	return errors.Is(err, unix.ENOLCK) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.ENOTSUP)
}
