package enumerate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/sys/unix"
)

type fsProvider interface {
	ReadDir(path string) ([]os.DirEntry, error)
	Access(path string, mode uint32) error
	Stat(path string, stat *unix.Stat_t) error
}

// Handler enumerates directories through an [fsProvider], which normally
// is a portability handler so that the directory itself gets resolved.
type Handler struct {
	fsHandler fsProvider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(fsHandler fsProvider) *Handler {
	return &Handler{
		fsHandler: fsHandler,
	}
}

// Scandir returns the names in dir matching pattern, de-duplicated and
// sorted by byte value. A pattern ending in ".*" also matches the names
// without any extension, so "data.*" finds "data" as well as "data.txt".
// An empty result is not an error.
func (h *Handler) Scandir(dir string, pattern string, ignoreCase bool) ([]string, error) {
	entries, err := h.fsHandler.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("(enumerate-scandir) %w", h.openError(dir, err))
	}

	patterns := []string{pattern}
	if stripped, ok := strings.CutSuffix(pattern, ".*"); ok {
		patterns = append(patterns, stripped)
	}

	names := make([]string, 0, len(entries))

	for _, p := range patterns {
		for _, entry := range entries {
			if Match(p, entry.Name(), ignoreCase) {
				names = append(names, entry.Name())
			}
		}
	}

	slices.Sort(names)
	names = slices.Compact(names)

	slog.Debug("Scanned directory",
		"dir", dir,
		"pattern", pattern,
		"matches", len(names),
	)

	return names, nil
}

// openError reports a directory that exists but cannot be listed by the
// caller as a permission problem rather than a missing directory.
func (h *Handler) openError(dir string, err error) error {
	if !errors.Is(err, unix.ENOENT) {
		return err
	}

	var stat unix.Stat_t
	if h.fsHandler.Stat(dir, &stat) != nil {
		return err
	}

	if h.fsHandler.Access(dir, unix.R_OK|unix.X_OK) != nil {
		return unix.EACCES
	}

	return err
}
