package share

import (
	"errors"
	"fmt"

	"github.com/desertwitch/w32io/internal/winerr"
)

// ErrUnknownIdentity is an error that occurs when a reference is released
// for an identity the [Table] holds no entry for. It carries
// [winerr.InvalidHandle] for callers translating it.
var ErrUnknownIdentity = fmt.Errorf("%w: %w", errors.New("share entry not held"), winerr.InvalidHandle)
