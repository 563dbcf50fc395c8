// Package eintr retries system calls interrupted by signals.
package eintr

import (
	"context"
	"errors"

	"golang.org/x/sys/unix"
)

// Do calls fn until it stops failing with EINTR or the context is cancelled.
// The last result of fn is returned as it is, so a cancelled call still
// carries its EINTR for the caller to interpret.
func Do[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	for {
		v, err := fn()
		if !errors.Is(err, unix.EINTR) {
			return v, err
		}

		if ctx.Err() != nil {
			return v, err
		}
	}
}

// Run is [Do] for calls that only return an error.
func Run(ctx context.Context, fn func() error) error {
	_, err := Do(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	})

	return err
}

// Interrupted reports whether err is an EINTR left over by a cancelled retry.
func Interrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}
