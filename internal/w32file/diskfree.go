package w32file

import (
	"context"

	"github.com/desertwitch/w32io/internal/eintr"
	"github.com/desertwitch/w32io/internal/winerr"
	"golang.org/x/sys/unix"
)

// DiskSpace holds the space statistics of a filesystem. It is meant to be
// passed by value.
type DiskSpace struct {
	// FreeBytesAvailable is free space usable by unprivileged callers.
	FreeBytesAvailable uint64
	TotalBytes         uint64
	// TotalFreeBytes includes space reserved for the superuser.
	TotalFreeBytes uint64
}

// DiskFreeSpace returns the [DiskSpace] of the filesystem containing dir,
// or of the working directory if dir is empty. Read-only filesystems have
// no free space.
func (h *Handler) DiskFreeSpace(ctx context.Context, dir string) (DiskSpace, error) {
	if dir == "" {
		cwd, err := h.osHandler.Getwd()
		if err != nil {
			return DiskSpace{}, h.fail("disk-free", winerr.Directory, err)
		}
		dir = cwd
	}

	var stat unix.Statfs_t
	if err := eintr.Run(ctx, func() error {
		return h.unixHandler.Statfs(dir, &stat)
	}); err != nil {
		return DiskSpace{}, h.failErr("disk-free", err)
	}

	blockSize := uint64(stat.Frsize) //nolint:gosec
	if blockSize == 0 {
		blockSize = uint64(stat.Bsize) //nolint:gosec
	}

	space := DiskSpace{
		TotalBytes: stat.Blocks * blockSize,
	}

	if stat.Flags&unix.ST_RDONLY == 0 {
		space.FreeBytesAvailable = stat.Bavail * blockSize
		space.TotalFreeBytes = stat.Bfree * blockSize
	}

	return space, nil
}
