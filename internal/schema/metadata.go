package schema

import "golang.org/x/sys/unix"

// Metadata is the subset of a stat result the compatibility layer works with.
type Metadata struct {
	Device     uint64
	Inode      uint64
	Mode       uint32
	Perms      uint32
	UID        uint32
	GID        uint32
	AccessedAt unix.Timespec
	ModifiedAt unix.Timespec
	ChangedAt  unix.Timespec
	Size       int64
	BlockSize  int64
	IsDir      bool
	IsSymlink  bool
}

// MetadataFromStat converts a raw [unix.Stat_t] into [Metadata].
func MetadataFromStat(stat *unix.Stat_t) *Metadata {
	return &Metadata{
		Device:     uint64(stat.Dev), //nolint:unconvert
		Inode:      stat.Ino,
		Mode:       stat.Mode,
		Perms:      (stat.Mode & 0o7777),
		UID:        stat.Uid,
		GID:        stat.Gid,
		AccessedAt: stat.Atim,
		ModifiedAt: stat.Mtim,
		ChangedAt:  stat.Ctim,
		Size:       stat.Size,
		BlockSize:  int64(stat.Blksize), //nolint:unconvert
		IsDir:      (stat.Mode & unix.S_IFMT) == unix.S_IFDIR,
		IsSymlink:  (stat.Mode & unix.S_IFMT) == unix.S_IFLNK,
	}
}

// FileMode returns the file type bits of the mode.
func (m *Metadata) FileMode() uint32 {
	return m.Mode & unix.S_IFMT
}
