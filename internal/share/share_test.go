package share

import (
	"sync"
	"testing"

	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = Identity{Device: 2049, Inode: 131}

// TestAcquire_Success tests the function [Table.Acquire].
func TestAcquire_Success(t *testing.T) {
	t.Parallel()

	tbl := NewTable()

	grant, existing := tbl.Acquire(testID, schema.ShareRead, schema.GenericRead)
	require.False(t, existing)
	require.Equal(t, Grant{Share: schema.ShareRead, Access: schema.GenericRead}, grant)

	grant, existing = tbl.Acquire(testID, schema.ShareWrite, schema.GenericWrite)
	require.True(t, existing)
	require.Equal(t, Grant{Share: schema.ShareRead, Access: schema.GenericRead}, grant, "first opener fixes the grant")

	require.Equal(t, uint32(2), tbl.Refs(testID))
	require.Equal(t, 1, tbl.Len())
}

// TestRelease_Success tests the function [Table.Release].
func TestRelease_Success(t *testing.T) {
	t.Parallel()

	tbl := NewTable()

	tbl.Acquire(testID, schema.ShareRead, schema.GenericRead)
	tbl.Acquire(testID, schema.ShareRead, schema.GenericRead)

	require.NoError(t, tbl.Release(testID))
	require.Equal(t, uint32(1), tbl.Refs(testID))

	require.NoError(t, tbl.Release(testID))
	require.Equal(t, 0, tbl.Len())

	grant, existing := tbl.Acquire(testID, schema.ShareWrite, schema.GenericWrite)
	require.False(t, existing, "entry is gone after the last release")
	require.Equal(t, schema.ShareWrite, grant.Share)
}

// TestRelease_Fail_Unknown tests releasing an identity that is not held.
func TestRelease_Fail_Unknown(t *testing.T) {
	t.Parallel()

	tbl := NewTable()

	err := tbl.Release(testID)
	require.ErrorIs(t, err, ErrUnknownIdentity)
	require.Equal(t, winerr.InvalidHandle, winerr.CodeOf(err))
}

// TestReset_Success tests the function [Table.Reset].
func TestReset_Success(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Acquire(testID, schema.ShareRead, schema.GenericRead)
	tbl.Reset()

	require.Equal(t, 0, tbl.Len())
}

// TestAcquireForOpen tests the function [Table.AcquireForOpen].
func TestAcquireForOpen(t *testing.T) {
	t.Parallel()

	readWrite := schema.GenericRead | schema.GenericWrite
	shareRW := schema.ShareRead | schema.ShareWrite

	tests := []struct {
		name        string
		firstShare  schema.ShareMode
		firstAccess schema.Access
		share       schema.ShareMode
		access      schema.Access
		wantErr     bool
	}{
		{"Success_ShareReadBoth", schema.ShareRead, schema.GenericRead, schema.ShareRead, schema.GenericRead, false},
		{"Success_ShareReadWrite", shareRW, readWrite, shareRW, readWrite, false},
		{"Success_ShareWriteWriter", schema.ShareWrite, schema.GenericWrite, schema.ShareWrite, schema.GenericWrite, false},
		{"Fail_ShareNone", schema.ShareNone, schema.GenericRead, shareRW, schema.GenericRead, true},
		{"Fail_ShareReadWantsWrite", schema.ShareRead, schema.GenericRead, shareRW, schema.GenericWrite, true},
		{"Fail_ShareReadWantsBoth", schema.ShareRead, schema.GenericRead, shareRW, readWrite, true},
		{"Fail_ShareWriteWantsRead", schema.ShareWrite, schema.GenericWrite, shareRW, schema.GenericRead, true},
		{"Fail_ExistingReaderNotShared", shareRW, schema.GenericRead, schema.ShareWrite, schema.GenericWrite, true},
		{"Fail_ExistingWriterNotShared", shareRW, schema.GenericWrite, schema.ShareRead, schema.GenericRead, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := NewTable()
			require.NoError(t, tbl.AcquireForOpen(testID, tt.firstShare, tt.firstAccess))

			err := tbl.AcquireForOpen(testID, tt.share, tt.access)
			if tt.wantErr {
				require.ErrorIs(t, err, winerr.SharingViolation)
				require.Equal(t, uint32(1), tbl.Refs(testID), "rejected open must not keep a reference")

				return
			}

			require.NoError(t, err)
			require.Equal(t, uint32(2), tbl.Refs(testID))
		})
	}
}

// TestCheckDelete tests the function [Table.CheckDelete].
func TestCheckDelete(t *testing.T) {
	t.Parallel()

	t.Run("Success_NotOpen", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable()
		require.NoError(t, tbl.CheckDelete(testID))
		require.Equal(t, 0, tbl.Len())
	})

	t.Run("Success_SharedDelete", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable()
		require.NoError(t, tbl.AcquireForOpen(testID, schema.ShareRead|schema.ShareDelete, schema.GenericRead))
		require.NoError(t, tbl.CheckDelete(testID))
		require.Equal(t, uint32(1), tbl.Refs(testID))
	})

	t.Run("Fail_NotSharedDelete", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable()
		require.NoError(t, tbl.AcquireForOpen(testID, schema.ShareRead, schema.GenericRead))
		require.ErrorIs(t, tbl.CheckDelete(testID), winerr.SharingViolation)
		require.Equal(t, uint32(1), tbl.Refs(testID))
	})

	t.Run("Fail_ShareNone", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable()
		require.NoError(t, tbl.AcquireForOpen(testID, schema.ShareNone, schema.GenericRead))
		require.ErrorIs(t, tbl.CheckDelete(testID), winerr.SharingViolation)
	})
}

// TestTable_Concurrent tests that balanced acquire and release from many
// goroutines leaves the table empty.
func TestTable_Concurrent(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	shareAll := schema.ShareRead | schema.ShareWrite | schema.ShareDelete

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			id := Identity{Device: 1, Inode: uint64(i % 4)}
			for range 100 {
				if err := tbl.AcquireForOpen(id, shareAll, schema.GenericRead); err != nil {
					continue
				}
				assert.NoError(t, tbl.Release(id))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 0, tbl.Len())
}
