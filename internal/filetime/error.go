package filetime

import "errors"

var (
	// ErrNegativeTicks is an error that occurs when a tick count below zero
	// is decoded into calendar fields.
	ErrNegativeTicks = errors.New("tick count is negative")

	// ErrBeforeUnixEpoch is an error that occurs when a tick count before
	// 1970-01-01 is converted into a Unix timestamp.
	ErrBeforeUnixEpoch = errors.New("tick count is before the unix epoch")

	// ErrOverflow is an error that occurs when a tick count does not fit the
	// platform's time representation.
	ErrOverflow = errors.New("tick count overflows time_t")
)
