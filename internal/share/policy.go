package share

import (
	"log/slog"

	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
)

// AcquireForOpen takes a reference on id for an opener requesting share and
// access, and rejects the open with [winerr.SharingViolation] if the rules
// of an existing opener forbid it. On rejection the reference is given back
// before returning; on success the caller holds it.
func (t *Table) AcquireForOpen(id Identity, share schema.ShareMode, access schema.Access) error {
	grant, existing := t.Acquire(id, share, access)
	if !existing {
		return nil
	}

	if allowsOpen(grant, share, access) {
		return nil
	}

	slog.Debug("Share mode prevents open",
		"device", id.Device,
		"inode", id.Inode,
		"existingShare", grant.Share,
		"existingAccess", grant.Access,
		"share", share,
		"access", access,
	)

	_ = t.Release(id)

	return winerr.SharingViolation
}

func allowsOpen(existing Grant, share schema.ShareMode, access schema.Access) bool {
	if existing.Share == schema.ShareNone {
		return false
	}

	if (existing.Share == schema.ShareRead && access != schema.GenericRead) ||
		(existing.Share == schema.ShareWrite && access != schema.GenericWrite) {
		return false
	}

	if (existing.Access&schema.GenericRead != 0 && share&schema.ShareRead == 0) ||
		(existing.Access&schema.GenericWrite != 0 && share&schema.ShareWrite == 0) {
		return false
	}

	return true
}

// CheckDelete reports whether id may be deleted or renamed, which requires
// every existing opener to have granted delete sharing. It holds no
// reference on return.
func (t *Table) CheckDelete(id Identity) error {
	grant, existing := t.Acquire(id, schema.ShareDelete, schema.GenericRead)
	defer t.Release(id) //nolint:errcheck

	if existing && (grant.Share == schema.ShareNone || grant.Share&schema.ShareDelete == 0) {
		slog.Debug("Share mode prevents delete",
			"device", id.Device,
			"inode", id.Inode,
			"existingShare", grant.Share,
		)

		return winerr.SharingViolation
	}

	return nil
}
