package w32file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/desertwitch/w32io/internal/eintr"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/share"
	"github.com/desertwitch/w32io/internal/winerr"
	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

const (
	minCopyBuffer = 8192
	maxCopyBuffer = 65536
)

// Delete removes a file. Files open without delete sharing cannot be
// deleted.
func (h *Handler) Delete(name string) error {
	if name == "" {
		return h.fail("delete", winerr.InvalidName, nil)
	}

	if m, err := h.statPath(name); err == nil {
		if err := h.shares.CheckDelete(share.IdentityOf(m)); err != nil {
			return h.failErr("delete", err)
		}
	}

	if err := h.fsHandler.Unlink(name); err != nil {
		return h.failPath("delete", name, err)
	}

	return nil
}

// Move renames src to dst. An existing dst is only accepted if it is the
// same file as src. Files that cannot be renamed across devices are copied
// and then deleted, directories are refused.
func (h *Handler) Move(ctx context.Context, src string, dst string) error {
	if src == "" || dst == "" {
		return h.fail("move", winerr.InvalidName, nil)
	}

	srcMeta, err := h.statPath(src, unix.ENOENT)
	if err != nil {
		return h.failPath("move", src, err)
	}

	var dstStat unix.Stat_t
	if h.fsHandler.Stat(dst, &dstStat) == nil {
		if share.IdentityOf(schema.MetadataFromStat(&dstStat)) != share.IdentityOf(srcMeta) {
			return h.fail("move", winerr.AlreadyExists, nil)
		}
	}

	if err := h.shares.CheckDelete(share.IdentityOf(srcMeta)); err != nil {
		return h.failErr("move", err)
	}

	err = h.fsHandler.Rename(src, dst)

	switch {
	case err == nil:
		return nil

	case errors.Is(err, unix.EEXIST):
		return h.fail("move", winerr.AlreadyExists, err)

	case errors.Is(err, unix.ENOENT):
		return h.failPath("move", dst, err)

	case errors.Is(err, unix.EXDEV):
		if srcMeta.IsDir {
			return h.fail("move", winerr.NotSameDevice, err)
		}

		slog.Debug("Moving across devices by copying", "src", src, "dst", dst)

		if err := h.Copy(ctx, src, dst, false); err != nil {
			return err
		}

		return h.Delete(src)

	default:
		return h.failErr("move", err)
	}
}

// Copy copies the contents of src to dst, keeping the permission bits and
// the access and modification times of src. With failIfExists an existing
// dst is an error, otherwise it is overwritten and ERROR_ALREADY_EXISTS is
// left in the last-error slot although the copy succeeds.
func (h *Handler) Copy(ctx context.Context, src string, dst string, failIfExists bool) error {
	if src == "" || dst == "" {
		return h.fail("copy", winerr.InvalidName, nil)
	}

	srcFD, err := h.fsHandler.Open(src, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return h.failPath("copy", src, err)
	}
	defer h.unixHandler.Close(srcFD) //nolint:errcheck

	var stat unix.Stat_t
	if err := h.unixHandler.Fstat(srcFD, &stat); err != nil {
		return h.failErr("copy", err)
	}
	srcMeta := schema.MetadataFromStat(&stat)

	var dstStat unix.Stat_t
	if h.fsHandler.Stat(dst, &dstStat) == nil {
		if share.IdentityOf(schema.MetadataFromStat(&dstStat)) == share.IdentityOf(srcMeta) {
			return h.fail("copy", winerr.SharingViolation, nil)
		}
	}

	var (
		dstFD       int
		overwriting bool
	)

	if failIfExists {
		dstFD, err = h.fsHandler.Open(dst, unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, srcMeta.Perms)
	} else {
		dstFD, err = h.fsHandler.Open(dst, unix.O_WRONLY|unix.O_TRUNC|unix.O_CLOEXEC, srcMeta.Perms)
		if err != nil {
			dstFD, err = h.fsHandler.Open(dst, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, srcMeta.Perms)
		} else {
			overwriting = true
		}
	}
	if err != nil {
		return h.failErr("copy", err)
	}

	written, err := h.copyData(ctx, srcFD, dstFD, srcMeta.BlockSize)
	_ = h.unixHandler.Close(dstFD)
	if err != nil {
		return h.failErr("copy", err)
	}

	if err := h.fsHandler.UtimesNano(dst, []unix.Timespec{srcMeta.AccessedAt, srcMeta.ModifiedAt}); err != nil {
		slog.Debug("Failed to carry over file times", "dst", dst, "err", err)
	}

	slog.Debug("Copied file",
		"src", src,
		"dst", dst,
		"size", humanize.IBytes(uint64(written)), //nolint:gosec
		"overwritten", overwriting,
	)

	if overwriting {
		h.lastError.Set(winerr.AlreadyExists)
	}

	return nil
}

// copyData copies from srcFD to dstFD until end of file, with a buffer
// sized after the block size of the source.
func (h *Handler) copyData(ctx context.Context, srcFD int, dstFD int, blockSize int64) (int64, error) {
	buf := make([]byte, min(max(blockSize, minCopyBuffer), maxCopyBuffer))

	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("%w: %w", unix.EINTR, err)
		}

		n, err := eintr.Do(ctx, func() (int, error) {
			return h.unixHandler.Read(srcFD, buf)
		})
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}

		for chunk := buf[:n]; len(chunk) > 0; {
			w, err := eintr.Do(ctx, func() (int, error) {
				return h.unixHandler.Write(dstFD, chunk)
			})
			if err != nil {
				return total, err
			}

			chunk = chunk[w:]
			total += int64(w)
		}
	}
}

// Replace replaces the contents of replaced with replacement by renaming,
// optionally keeping the previous replaced file as backup. If the final
// rename fails, replaced is restored from the backup and the previous
// backup file is recreated from its still open descriptor.
func (h *Handler) Replace(ctx context.Context, replaced string, replacement string, backup string) error {
	if replaced == "" || replacement == "" {
		return h.fail("replace", winerr.InvalidName, nil)
	}

	backupFD := -1

	if backup != "" {
		if fd, err := h.fsHandler.Open(backup, unix.O_RDONLY|unix.O_CLOEXEC, 0); err == nil {
			backupFD = fd
			defer h.unixHandler.Close(backupFD) //nolint:errcheck
		}

		if err := h.fsHandler.Rename(replaced, backup); err != nil {
			return h.failPath("replace", replaced, err)
		}
	}

	err := h.fsHandler.Rename(replacement, replaced)
	if err == nil {
		return nil
	}

	ferr := h.failPath("replace", replacement, err)

	if backup != "" {
		if err := h.fsHandler.Rename(backup, replaced); err != nil {
			slog.Warn("Failed to restore replaced file from backup", "replaced", replaced, "backup", backup, "err", err)
		}

		if backupFD >= 0 {
			h.restoreBackup(ctx, backupFD, backup)
		}
	}

	return ferr
}

// restoreBackup recreates backup from the contents of backupFD.
func (h *Handler) restoreBackup(ctx context.Context, backupFD int, backup string) {
	var stat unix.Stat_t
	if err := h.unixHandler.Fstat(backupFD, &stat); err != nil {
		return
	}
	meta := schema.MetadataFromStat(&stat)

	fd, err := h.fsHandler.Open(backup, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, meta.Perms)
	if err != nil {
		slog.Warn("Failed to recreate backup file", "backup", backup, "err", err)

		return
	}
	defer h.unixHandler.Close(fd) //nolint:errcheck

	if _, err := h.unixHandler.Seek(backupFD, 0, unix.SEEK_SET); err != nil {
		return
	}

	if _, err := h.copyData(ctx, backupFD, fd, meta.BlockSize); err != nil {
		slog.Warn("Failed to restore backup contents", "backup", backup, "err", err)
	}
}

// CreateDirectory creates a directory.
func (h *Handler) CreateDirectory(name string) error {
	if name == "" {
		return h.fail("mkdir", winerr.InvalidName, nil)
	}

	if err := h.fsHandler.Mkdir(name, 0o777); err != nil {
		return h.failPath("mkdir", name, err)
	}

	return nil
}

// RemoveDirectory removes an empty directory.
func (h *Handler) RemoveDirectory(name string) error {
	if name == "" {
		return h.fail("rmdir", winerr.InvalidName, nil)
	}

	if err := h.fsHandler.Rmdir(name); err != nil {
		return h.failPath("rmdir", name, err)
	}

	return nil
}

// GetCwd returns the working directory of the process.
func (h *Handler) GetCwd() (string, error) {
	dir, err := h.osHandler.Getwd()
	if err != nil {
		return "", h.failErr("getcwd", err)
	}

	return dir, nil
}

// SetCwd changes the working directory of the process.
func (h *Handler) SetCwd(dir string) error {
	if dir == "" {
		return h.fail("chdir", winerr.InvalidParameter, nil)
	}

	if err := h.fsHandler.Chdir(dir); err != nil {
		return h.failErr("chdir", err)
	}

	return nil
}
