// Package filetime converts between Unix timestamps, Windows FILETIME tick
// counts (100ns units since 1601-01-01T00:00:00Z) and calendar fields.
package filetime

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Ticks is a count of 100-nanosecond intervals since 1601-01-01T00:00:00Z.
type Ticks int64

const (
	// UnixEpoch is 1970-01-01T00:00:00Z expressed in ticks.
	UnixEpoch Ticks = 116444736000000000

	TicksPerMillisecond Ticks = 10000
	TicksPerSecond      Ticks = 1000 * TicksPerMillisecond
	TicksPerMinute      Ticks = 60 * TicksPerSecond
	TicksPerHour        Ticks = 60 * TicksPerMinute
	TicksPerDay         Ticks = 24 * TicksPerHour
)

// timeWidth is the width in bits of the platform's time_t.
const timeWidth = unsafe.Sizeof(unix.Timespec{}.Sec) * 8 //nolint:gosec

// maxTimeT is the largest second count the platform's time_t can hold.
const maxTimeT = int64(^uint64(0) >> (64 - timeWidth + 1))

// FileTime is a tick count serialized as two 32-bit words.
type FileTime struct {
	LowDateTime  uint32
	HighDateTime uint32
}

// FromUnix converts whole Unix seconds into ticks.
func FromUnix(sec int64) Ticks {
	return Ticks(sec)*TicksPerSecond + UnixEpoch
}

// FromTimespec converts the whole seconds of a [unix.Timespec] into ticks.
func FromTimespec(ts unix.Timespec) Ticks {
	return FromUnix(int64(ts.Sec)) //nolint:unconvert
}

// FileTime splits the tick count into its low and high words.
func (t Ticks) FileTime() FileTime {
	return FileTime{
		LowDateTime:  uint32(uint64(t) & 0xFFFFFFFF), //nolint:gosec
		HighDateTime: uint32(uint64(t) >> 32),        //nolint:gosec
	}
}

// Ticks joins the two words back into a tick count. Values with the top bit
// set become negative, which every decoder rejects.
func (f FileTime) Ticks() Ticks {
	return Ticks(int64(uint64(f.HighDateTime)<<32 | uint64(f.LowDateTime))) //nolint:gosec
}

// Unix converts the tick count into whole Unix seconds. Instants before the
// Unix epoch and values beyond the platform's time_t are rejected.
func (t Ticks) Unix() (int64, error) {
	if t < UnixEpoch {
		return 0, fmt.Errorf("%w: %d", ErrBeforeUnixEpoch, t)
	}

	sec := int64((t - UnixEpoch) / TicksPerSecond)
	if sec > maxTimeT {
		return 0, fmt.Errorf("%w: %d seconds", ErrOverflow, sec)
	}

	return sec, nil
}

// Timespec converts the tick count into a [unix.Timespec] of whole seconds.
func (t Ticks) Timespec() (unix.Timespec, error) {
	sec, err := t.Unix()
	if err != nil {
		return unix.Timespec{}, err
	}

	ts, err := unix.TimeToTimespec(time.Unix(sec, 0))
	if err != nil {
		return unix.Timespec{}, fmt.Errorf("%w: %w", ErrOverflow, err)
	}

	return ts, nil
}
