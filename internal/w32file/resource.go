package w32file

import (
	"context"

	"github.com/desertwitch/w32io/internal/filetime"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/winerr"
)

// Times are the timestamps of a file. A nil field in [Handler.SetTimes]
// keeps the current value.
type Times struct {
	Creation   *filetime.Ticks
	LastAccess *filetime.Ticks
	LastWrite  *filetime.Ticks
}

// resource is the operation set every handle kind answers. Kinds implement
// only what is meaningful for them and inherit the rest from [unsupported].
type resource interface {
	Kind() string
	FileType() schema.FileType
	Read(ctx context.Context, buf []byte) (int, error)
	Write(ctx context.Context, buf []byte) (int, error)
	Flush(ctx context.Context) error
	Seek(offset int64, method schema.SeekMethod) (int64, error)
	SetEndOfFile(ctx context.Context) error
	Size() (int64, error)
	Times() (create, access, write filetime.Ticks, err error)
	SetTimes(times Times) error
	Lock(offset int64, length int64) error
	Unlock(offset int64, length int64) error
	Close() error
}

// unsupported answers every operation with ERROR_INVALID_HANDLE.
type unsupported struct{}

func (unsupported) FileType() schema.FileType {
	return schema.FileTypeUnknown
}

func (unsupported) Read(context.Context, []byte) (int, error) {
	return 0, winerr.InvalidHandle
}

func (unsupported) Write(context.Context, []byte) (int, error) {
	return 0, winerr.InvalidHandle
}

func (unsupported) Flush(context.Context) error {
	return winerr.InvalidHandle
}

func (unsupported) Seek(int64, schema.SeekMethod) (int64, error) {
	return 0, winerr.InvalidHandle
}

func (unsupported) SetEndOfFile(context.Context) error {
	return winerr.InvalidHandle
}

func (unsupported) Size() (int64, error) {
	return 0, winerr.InvalidHandle
}

func (unsupported) Times() (filetime.Ticks, filetime.Ticks, filetime.Ticks, error) {
	return 0, 0, 0, winerr.InvalidHandle
}

func (unsupported) SetTimes(Times) error {
	return winerr.InvalidHandle
}

func (unsupported) Lock(int64, int64) error {
	return winerr.InvalidHandle
}

func (unsupported) Unlock(int64, int64) error {
	return winerr.InvalidHandle
}

func (unsupported) Close() error {
	return nil
}
