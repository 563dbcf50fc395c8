// Package share emulates Windows share-mode locking, which POSIX lacks. A
// [Table] records, per file identity, the share mode and access rights of
// the first opener and counts the references held by later openers.
package share

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/desertwitch/w32io/internal/schema"
)

// Identity is the (device, inode) pair that identifies a file.
type Identity struct {
	Device uint64
	Inode  uint64
}

// IdentityOf returns the [Identity] of a file's [schema.Metadata].
func IdentityOf(m *schema.Metadata) Identity {
	return Identity{Device: m.Device, Inode: m.Inode}
}

// Grant holds the share mode and access rights in force for an identity.
type Grant struct {
	Share  schema.ShareMode
	Access schema.Access
}

type entry struct {
	grant Grant
	refs  uint32
}

// Table is the registry of identities currently opened with share checks.
// The grant of an entry is fixed by its first opener, and an entry exists
// exactly as long as its reference count is above zero. All methods are
// safe for concurrent use and never hold the lock across a syscall.
type Table struct {
	sync.Mutex
	entries map[Identity]entry
}

// NewTable returns a pointer to a new, empty [Table].
func NewTable() *Table {
	return &Table{
		entries: make(map[Identity]entry),
	}
}

// Acquire takes a reference on id. Without an existing entry one is created
// with the requested grant, and existing is false. Otherwise the stored grant
// is returned so the caller can judge compatibility. The reference is held
// either way and must be given back with [Table.Release].
func (t *Table) Acquire(id Identity, share schema.ShareMode, access schema.Access) (grant Grant, existing bool) {
	t.Lock()
	defer t.Unlock()

	if e, ok := t.entries[id]; ok {
		e.refs++
		t.entries[id] = e

		return e.grant, true
	}

	grant = Grant{Share: share, Access: access}
	t.entries[id] = entry{grant: grant, refs: 1}

	return grant, false
}

// Release gives back a reference taken by [Table.Acquire], removing the
// entry with the last reference. Releasing an unknown identity is a caller
// defect and returns [ErrUnknownIdentity].
func (t *Table) Release(id Identity) error {
	t.Lock()
	defer t.Unlock()

	e, ok := t.entries[id]
	if !ok {
		slog.Warn("Released share entry that is not held",
			"device", id.Device,
			"inode", id.Inode,
		)

		return fmt.Errorf("%w: %d:%d", ErrUnknownIdentity, id.Device, id.Inode)
	}

	e.refs--
	if e.refs == 0 {
		delete(t.entries, id)

		return nil
	}

	t.entries[id] = e

	return nil
}

// Refs returns the number of references held on id.
func (t *Table) Refs(id Identity) uint32 {
	t.Lock()
	defer t.Unlock()

	return t.entries[id].refs
}

// Len returns the number of identities in the table.
func (t *Table) Len() int {
	t.Lock()
	defer t.Unlock()

	return len(t.entries)
}

// Reset drops every entry. It is meant for shutdown, after all resources
// holding references are closed.
func (t *Table) Reset() {
	t.Lock()
	defer t.Unlock()

	if n := len(t.entries); n > 0 {
		slog.Warn("Share table reset with entries still held", "entries", n)
	}

	t.entries = make(map[Identity]entry)
}
