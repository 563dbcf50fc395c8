package w32file

import (
	"context"
	"log/slog"

	"github.com/desertwitch/w32io/internal/handles"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
)

// Read reads up to len(buf) bytes from the handle. Zero bytes without an
// error means end of file, or that ctx was cancelled during an interrupted
// read.
func (h *Handler) Read(ctx context.Context, handle handles.Handle, buf []byte) (int, error) {
	res, err := h.lookup("read", handle)
	if err != nil {
		return 0, err
	}

	n, err := res.Read(ctx, buf)
	if err != nil {
		return 0, h.failErr("read", err)
	}

	return n, nil
}

// Write writes buf to the handle and returns the number of bytes written,
// which can be short.
func (h *Handler) Write(ctx context.Context, handle handles.Handle, buf []byte) (int, error) {
	res, err := h.lookup("write", handle)
	if err != nil {
		return 0, err
	}

	n, err := res.Write(ctx, buf)
	if err != nil {
		return 0, h.failErr("write", err)
	}

	return n, nil
}

// Flush commits written data of a file to storage.
func (h *Handler) Flush(ctx context.Context, handle handles.Handle) error {
	res, err := h.lookup("flush", handle)
	if err != nil {
		return err
	}

	if err := res.Flush(ctx); err != nil {
		return h.failErr("flush", err)
	}

	return nil
}

// Seek moves the position of a file handle. The distance is low, or with
// high given the 64-bit value high:low. The new position is returned as
// the low word and, with high given, the high word stored back into it.
// Failures return [schema.InvalidSetFilePointer] with the error, and high
// keeps the value passed in. Moving before the start of the file fails
// with [winerr.NegativeSeek].
func (h *Handler) Seek(handle handles.Handle, low int32, high *int32, method schema.SeekMethod) (uint32, error) {
	offset := int64(low)
	if high != nil {
		offset = int64(*high)<<32 | int64(uint32(low))
	}

	pos, err := h.SeekOffset(handle, offset, method)
	if err != nil {
		return schema.InvalidSetFilePointer, err
	}

	if high != nil {
		*high = int32(pos >> 32) //nolint:gosec
	}

	return uint32(pos), nil //nolint:gosec
}

// SeekOffset is [Handler.Seek] with a 64-bit distance and result.
func (h *Handler) SeekOffset(handle handles.Handle, offset int64, method schema.SeekMethod) (int64, error) {
	res, err := h.lookup("seek", handle)
	if err != nil {
		return 0, err
	}

	pos, err := res.Seek(offset, method)
	if err != nil {
		return 0, h.failErr("seek", err)
	}

	return pos, nil
}

// SetEndOfFile makes the current position of a file handle its end.
func (h *Handler) SetEndOfFile(ctx context.Context, handle handles.Handle) error {
	res, err := h.lookup("truncate", handle)
	if err != nil {
		return err
	}

	if err := res.SetEndOfFile(ctx); err != nil {
		return h.failErr("truncate", err)
	}

	return nil
}

// GetSize returns the size of a file handle split into low and high words.
// The last-error slot is cleared first, since a size whose low word equals
// [schema.InvalidFileSize] is legitimate.
func (h *Handler) GetSize(handle handles.Handle) (low uint32, high uint32, err error) {
	h.lastError.Clear()

	size, err := h.GetSize64(handle)
	if err != nil {
		return schema.InvalidFileSize, 0, err
	}

	return uint32(size), uint32(size >> 32), nil //nolint:gosec
}

// GetSize64 is [Handler.GetSize] returning the size as one value.
func (h *Handler) GetSize64(handle handles.Handle) (int64, error) {
	res, err := h.lookup("size", handle)
	if err != nil {
		return 0, err
	}

	size, err := res.Size()
	if err != nil {
		return 0, h.failErr("size", err)
	}

	return size, nil
}

// GetTimes returns the creation, last access and last write times of a
// file handle.
func (h *Handler) GetTimes(handle handles.Handle) (Times, error) {
	res, err := h.lookup("get-times", handle)
	if err != nil {
		return Times{}, err
	}

	create, access, write, err := res.Times()
	if err != nil {
		return Times{}, h.failErr("get-times", err)
	}

	return Times{Creation: &create, LastAccess: &access, LastWrite: &write}, nil
}

// SetTimes changes the last access and last write times of a file handle.
// Nil fields keep their current value.
func (h *Handler) SetTimes(handle handles.Handle, times Times) error {
	res, err := h.lookup("set-times", handle)
	if err != nil {
		return err
	}

	if err := res.SetTimes(times); err != nil {
		return h.failErr("set-times", err)
	}

	return nil
}

// Lock places an exclusive advisory lock on a byte range of a file handle.
func (h *Handler) Lock(handle handles.Handle, offset int64, length int64) error {
	res, err := h.lookup("lock", handle)
	if err != nil {
		return err
	}

	if err := res.Lock(offset, length); err != nil {
		return h.failErr("lock", err)
	}

	return nil
}

// Unlock removes a lock placed by [Handler.Lock].
func (h *Handler) Unlock(handle handles.Handle, offset int64, length int64) error {
	res, err := h.lookup("unlock", handle)
	if err != nil {
		return err
	}

	if err := res.Unlock(offset, length); err != nil {
		return h.failErr("unlock", err)
	}

	return nil
}

// GetType returns the type of a handle, or [schema.FileTypeUnknown] with an
// error for unknown handles.
func (h *Handler) GetType(handle handles.Handle) (schema.FileType, error) {
	res, err := h.lookup("type", handle)
	if err != nil {
		return schema.FileTypeUnknown, err
	}

	return res.FileType(), nil
}

// Close closes a handle of any kind. The handle is invalid afterwards, even
// if closing the underlying descriptor failed.
func (h *Handler) Close(handle handles.Handle) error {
	res, ok := h.resources.Remove(handle)
	if !ok {
		slog.Warn("Close of unknown handle", "handle", handle)

		return h.fail("close", winerr.InvalidHandle, nil)
	}

	h.forgetStd(handle)

	slog.Debug("Closing handle", "handle", handle, "kind", res.Kind())

	if err := res.Close(); err != nil {
		return h.failErr("close", err)
	}

	return nil
}
