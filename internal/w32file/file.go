package w32file

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desertwitch/w32io/internal/eintr"
	"github.com/desertwitch/w32io/internal/filetime"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

// fileResource is an opened disk file or directory.
type fileResource struct {
	descriptor
}

func (*fileResource) Kind() string {
	return "file"
}

func (*fileResource) FileType() schema.FileType {
	return schema.FileTypeDisk
}

func (f *fileResource) Read(ctx context.Context, buf []byte) (int, error) {
	return f.read(ctx, buf)
}

// Write writes buf at the current position. With strict locking the range
// about to be written is locked for the duration of the write, so that a
// conflicting lock held elsewhere fails the write.
func (f *fileResource) Write(ctx context.Context, buf []byte) (int, error) {
	if !f.access.CanWrite() {
		return 0, winerr.AccessDenied
	}

	if f.h.opts.StrictLocking && len(buf) > 0 {
		pos, err := f.h.unixHandler.Seek(f.fd, 0, unix.SEEK_CUR)
		if err != nil {
			return 0, err
		}

		if err := f.h.lockHandler.Lock(f.fd, pos, int64(len(buf))); err != nil {
			return 0, err
		}
		defer f.h.lockHandler.Unlock(f.fd, pos, int64(len(buf))) //nolint:errcheck
	}

	return f.write(ctx, buf)
}

func (f *fileResource) Flush(ctx context.Context) error {
	if !f.access.CanWrite() {
		return winerr.AccessDenied
	}

	return eintr.Run(ctx, func() error {
		return f.h.unixHandler.Fsync(f.fd)
	})
}

func (f *fileResource) Seek(offset int64, method schema.SeekMethod) (int64, error) {
	if !f.access.CanReadOrWrite() {
		return 0, winerr.AccessDenied
	}

	var whence int

	switch method {
	case schema.FileBegin:
		whence = unix.SEEK_SET
	case schema.FileCurrent:
		whence = unix.SEEK_CUR
	case schema.FileEnd:
		whence = unix.SEEK_END
	default:
		slog.Debug("Invalid seek method", "method", method, "path", f.path)

		return 0, winerr.InvalidParameter
	}

	pos, err := f.h.unixHandler.Seek(f.fd, offset, whence)
	if errors.Is(err, unix.EINVAL) {
		// The whence is valid, so the position would end up before the start.
		return 0, winerr.NegativeSeek
	}

	return pos, err
}

// SetEndOfFile truncates or extends the file to the current position.
func (f *fileResource) SetEndOfFile(ctx context.Context) error {
	if !f.access.CanWrite() {
		return winerr.AccessDenied
	}

	var stat unix.Stat_t
	if err := f.h.unixHandler.Fstat(f.fd, &stat); err != nil {
		return err
	}

	pos, err := f.h.unixHandler.Seek(f.fd, 0, unix.SEEK_CUR)
	if err != nil {
		return err
	}

	if err := eintr.Run(ctx, func() error {
		return f.h.unixHandler.Ftruncate(f.fd, pos)
	}); err != nil {
		return err
	}

	if pos <= stat.Size {
		return nil
	}

	// Filesystems that cannot extend through ftruncate get a zero byte
	// written as the new last byte instead.
	if err := f.h.unixHandler.Fstat(f.fd, &stat); err != nil {
		return err
	}
	if stat.Size >= pos {
		return nil
	}

	slog.Debug("Extending file by writing", "path", f.path, "size", stat.Size, "pos", pos)

	if _, err := f.h.unixHandler.Seek(f.fd, pos-1, unix.SEEK_SET); err != nil {
		return err
	}
	if _, err := eintr.Do(ctx, func() (int, error) {
		return f.h.unixHandler.Write(f.fd, []byte{0})
	}); err != nil {
		return err
	}

	_, err = f.h.unixHandler.Seek(f.fd, pos, unix.SEEK_SET)

	return err
}

// Size returns the file size. Block devices report a zero size through
// stat, so their size is queried from the device instead.
func (f *fileResource) Size() (int64, error) {
	if !f.access.CanReadOrWrite() {
		return 0, winerr.AccessDenied
	}

	var stat unix.Stat_t
	if err := f.h.unixHandler.Fstat(f.fd, &stat); err != nil {
		return 0, err
	}

	if stat.Mode&unix.S_IFMT == unix.S_IFBLK && stat.Size == 0 {
		size, err := f.h.unixHandler.BlockDeviceSize(f.fd)
		if err != nil {
			return 0, err
		}

		return int64(size), nil //nolint:gosec
	}

	return stat.Size, nil
}

// Times returns creation, access and write times. POSIX has no creation
// time, so the earlier of access and status change time stands in.
func (f *fileResource) Times() (filetime.Ticks, filetime.Ticks, filetime.Ticks, error) {
	if !f.access.CanRead() {
		return 0, 0, 0, winerr.AccessDenied
	}

	var stat unix.Stat_t
	if err := f.h.unixHandler.Fstat(f.fd, &stat); err != nil {
		return 0, 0, 0, err
	}

	create := stat.Atim
	if stat.Ctim.Sec < create.Sec {
		create = stat.Ctim
	}

	return filetime.FromTimespec(create), filetime.FromTimespec(stat.Atim), filetime.FromTimespec(stat.Mtim), nil
}

// SetTimes sets access and write times by path. The creation time cannot
// be set and is ignored.
func (f *fileResource) SetTimes(times Times) error {
	if !f.access.CanWrite() {
		return winerr.AccessDenied
	}

	if f.path == "" {
		return winerr.InvalidHandle
	}

	var stat unix.Stat_t
	if err := f.h.unixHandler.Fstat(f.fd, &stat); err != nil {
		slog.Debug("Stat before setting times failed", "path", f.path, "err", err)

		return winerr.InvalidParameter
	}

	atime, err := timespecOr(times.LastAccess, stat.Atim)
	if err != nil {
		return err
	}

	mtime, err := timespecOr(times.LastWrite, stat.Mtim)
	if err != nil {
		return err
	}

	return f.h.fsHandler.UtimesNano(f.path, []unix.Timespec{atime, mtime})
}

// timespecOr converts t, or returns current if t is nil.
func timespecOr(t *filetime.Ticks, current unix.Timespec) (unix.Timespec, error) {
	if t == nil {
		return current, nil
	}

	ts, err := t.Timespec()
	if err != nil {
		slog.Debug("Unrepresentable file time", "ticks", int64(*t), "err", err)

		return unix.Timespec{}, winerr.InvalidParameter
	}

	return ts, nil
}

func (f *fileResource) Lock(offset int64, length int64) error {
	if !f.access.CanReadOrWrite() {
		return winerr.AccessDenied
	}

	return f.h.lockHandler.Lock(f.fd, offset, length)
}

func (f *fileResource) Unlock(offset int64, length int64) error {
	if !f.access.CanReadOrWrite() {
		return winerr.AccessDenied
	}

	return f.h.lockHandler.Unlock(f.fd, offset, length)
}

// Close unlinks a delete-on-close file by its stored path before closing
// the descriptor. Whatever sits at that path by then is removed.
func (f *fileResource) Close() error {
	if f.attrs&schema.FlagDeleteOnClose != 0 {
		if err := f.h.fsHandler.Unlink(f.path); err != nil {
			slog.Debug("Delete on close failed", "path", f.path, "err", err)
		}
	}

	f.releaseShare()

	return f.closeFD()
}
