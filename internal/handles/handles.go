// Package handles maps opaque handle values to the resources behind them.
package handles

import (
	"slices"
	"sync"
)

// Handle is an opaque identifier for an open resource.
type Handle uintptr

// Invalid is the handle value that never refers to a resource.
const Invalid = ^Handle(0)

// Table is a registry of resources keyed by [Handle]. It is safe for
// concurrent use.
type Table[T any] struct {
	sync.RWMutex
	next    Handle
	entries map[Handle]T
}

// NewTable returns a pointer to a new, empty [Table].
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		next:    1,
		entries: make(map[Handle]T),
	}
}

// Insert stores v under a fresh handle and returns it.
func (t *Table[T]) Insert(v T) Handle {
	t.Lock()
	defer t.Unlock()

	for {
		h := t.next

		t.next++
		if t.next == Invalid {
			t.next = 1
		}

		if _, taken := t.entries[h]; !taken {
			t.entries[h] = v

			return h
		}
	}
}

// Lookup returns the value stored under h.
func (t *Table[T]) Lookup(h Handle) (T, bool) {
	t.RLock()
	defer t.RUnlock()

	v, ok := t.entries[h]

	return v, ok
}

// Remove deletes h and returns the value that was stored under it.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	t.Lock()
	defer t.Unlock()

	v, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}

	return v, ok
}

// Handles returns the handles in use, in ascending order.
func (t *Table[T]) Handles() []Handle {
	t.RLock()
	defer t.RUnlock()

	out := make([]Handle, 0, len(t.entries))
	for h := range t.entries {
		out = append(out, h)
	}
	slices.Sort(out)

	return out
}

// Len returns the number of handles in use.
func (t *Table[T]) Len() int {
	t.RLock()
	defer t.RUnlock()

	return len(t.entries)
}
