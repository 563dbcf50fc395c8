// Package configuration reads the library options from dotenv files and the
// process environment. The environment always takes precedence over a file.
package configuration

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/desertwitch/w32io/internal/portability"
	"golang.org/x/sys/unix"
)

const (
	// KeyIOMap selects the path portability mode ("drive", "case", "all").
	KeyIOMap = "W32IO_IOMAP"

	// KeyStrictIO enables locking of written ranges during writes.
	KeyStrictIO = "W32IO_STRICT_IO_EMULATION"

	// KeyFDReserve is the descriptor number at which opens are refused.
	KeyFDReserve = "W32IO_FD_RESERVE"
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

type envProvider interface {
	LookupEnv(key string) (string, bool)
}

type rlimitProvider interface {
	Getrlimit(resource int, rlim *unix.Rlimit) error
}

// Options are the settings a file I/O handler runs with.
type Options struct {
	IOMap         portability.Mode
	StrictLocking bool
	FDReserve     int
}

// Handler is the principal implementation for reading [Options].
type Handler struct {
	genericConfigHandler genericConfigProvider
	envHandler           envProvider
	unixHandler          rlimitProvider
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler(genericConfigHandler genericConfigProvider, envHandler envProvider, unixHandler rlimitProvider) *Handler {
	return &Handler{
		genericConfigHandler: genericConfigHandler,
		envHandler:           envHandler,
		unixHandler:          unixHandler,
	}
}

// ReadOptions reads the given dotenv files, overlays the process
// environment and returns the resulting [Options].
func (c *Handler) ReadOptions(filenames ...string) (*Options, error) {
	envMap, err := c.genericConfigHandler.Read(filenames...)
	if err != nil {
		return nil, fmt.Errorf("(config-read) %w", err)
	}
	if envMap == nil {
		envMap = make(map[string]string)
	}

	for _, key := range []string{KeyIOMap, KeyStrictIO, KeyFDReserve} {
		if value, ok := c.envHandler.LookupEnv(key); ok {
			envMap[key] = value
		}
	}

	opts := &Options{
		IOMap:         portability.ParseMode(c.MapKeyToString(envMap, KeyIOMap)),
		StrictLocking: c.MapKeyToBool(envMap, KeyStrictIO),
		FDReserve:     c.MapKeyToInt(envMap, KeyFDReserve),
	}

	if opts.FDReserve <= 0 {
		opts.FDReserve = c.defaultFDReserve()
	}

	slog.Debug("Read configuration",
		"iomap", opts.IOMap,
		"strictLocking", opts.StrictLocking,
		"fdReserve", opts.FDReserve,
	)

	return opts, nil
}

// defaultFDReserve returns the soft descriptor limit of the process.
func (c *Handler) defaultFDReserve() int {
	var rlim unix.Rlimit
	if err := c.unixHandler.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil || rlim.Cur == unix.RLIM_INFINITY {
		slog.Warn("Unable to determine descriptor limit, using fallback", "err", err, "fallback", DefaultFDReserve)

		return DefaultFDReserve
	}

	return int(min(rlim.Cur, uint64(maxFDReserve)))
}

// MapKeyToString returns the value of key, or "" if it is not set.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}

	return ""
}

// MapKeyToInt returns the value of key as an int, or -1 if it is not set or
// not a number.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Ignored non-numeric configuration value", "key", key, "value", value)

		return -1
	}

	return intValue
}

// MapKeyToBool returns whether key is set to anything but "", "0", "false",
// "no" or "off".
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) bool {
	value := strings.ToLower(strings.TrimSpace(c.MapKeyToString(envMap, key)))

	switch value {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
