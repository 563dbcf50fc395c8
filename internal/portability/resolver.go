// Package portability makes case-sensitive, slash-sensitive POSIX paths
// behave like Windows paths. A [Resolver] searches for an existing entry
// matching a path under relaxed rules, and a [Handler] retries failed
// syscalls once with the path the resolver found.
package portability

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/unix"
	"golang.org/x/text/cases"
)

// Mode selects which relaxations the resolver applies. Any non-zero mode
// also normalizes backslashes into slashes.
type Mode uint8

const (
	// ModeNone disables the resolver.
	ModeNone Mode = 0

	// ModeDrive strips a leading drive letter ("C:").
	ModeDrive Mode = 1

	// ModeCase matches path components case-insensitively.
	ModeCase Mode = 2

	// ModeAll enables every relaxation.
	ModeAll = ModeDrive | ModeCase
)

// ParseMode parses a mode specification such as "drive", "case", "all" or
// "drive:case". Unknown tokens are logged and ignored.
func ParseMode(spec string) Mode {
	mode := ModeNone

	for _, token := range strings.FieldsFunc(spec, func(r rune) bool {
		return r == ':' || r == ',' || r == ' '
	}) {
		switch strings.ToLower(token) {
		case "drive":
			mode |= ModeDrive
		case "case":
			mode |= ModeCase
		case "all":
			mode |= ModeAll
		default:
			slog.Warn("Ignored unknown portability mode", "mode", token)
		}
	}

	return mode
}

// Enabled reports whether any relaxation is active.
func (m Mode) Enabled() bool {
	return m != ModeNone
}

// Drive reports whether drive letters are stripped.
func (m Mode) Drive() bool {
	return m&ModeDrive != 0
}

// Case reports whether components are matched case-insensitively.
func (m Mode) Case() bool {
	return m&ModeCase != 0
}

// String returns the textual form accepted by [ParseMode].
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeDrive:
		return "drive"
	case ModeCase:
		return "case"
	case ModeAll:
		return "all"
	default:
		return "unknown"
	}
}

type dirReadProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
}

type accessProvider interface {
	Access(path string, mode uint32) error
}

// Resolver finds on-disk spellings of Windows-style paths.
type Resolver struct {
	mode          Mode
	osHandler     dirReadProvider
	accessHandler accessProvider
}

// NewResolver returns a pointer to a new [Resolver].
func NewResolver(mode Mode, osHandler dirReadProvider, accessHandler accessProvider) *Resolver {
	return &Resolver{
		mode:          mode,
		osHandler:     osHandler,
		accessHandler: accessHandler,
	}
}

// Mode returns the active [Mode].
func (r *Resolver) Mode() Mode {
	return r.mode
}

// Normalize converts backslashes into slashes and strips a drive letter, as
// far as the active [Mode] asks for it.
func (r *Resolver) Normalize(path string) string {
	if !r.mode.Enabled() {
		return path
	}

	path = strings.ReplaceAll(path, `\`, "/")

	if r.mode.Drive() && hasDriveLetter(path) {
		path = path[2:]
	}

	return path
}

// Basename returns the last element of a normalized path.
func (r *Resolver) Basename(path string) string {
	return basename(r.Normalize(path))
}

// Dirname returns all but the last element of a normalized path.
func (r *Resolver) Dirname(path string) string {
	return dirname(r.Normalize(path))
}

// Find searches for an existing entry matching path. With lastExists unset
// the final component names something about to be created, so only the
// parent directories are resolved and the final component is kept as given.
// It returns false when the resolver is disabled or any component has no
// match.
func (r *Resolver) Find(path string, lastExists bool) (string, bool) {
	if !r.mode.Enabled() || path == "" {
		return "", false
	}

	fixed := r.Normalize(path)
	if fixed == "" {
		return "", false
	}

	probe := fixed
	if !lastExists {
		probe = dirname(fixed)
	}
	if r.accessHandler.Access(probe, unix.F_OK) == nil {
		return fixed, true
	}

	if !r.mode.Case() {
		return "", false
	}

	components := strings.Split(fixed, "/")

	limit := len(components)
	if !lastExists {
		limit--
	}

	resolved := ""
	if strings.HasPrefix(fixed, "/") {
		resolved = "/"
	}

	for _, component := range components[:limit] {
		switch component {
		case "", ".":
			continue
		case "..":
			resolved = appendComponent(resolved, component)

			continue
		}

		match, ok := r.findInDir(resolved, component)
		if !ok {
			slog.Debug("Portability resolver found no match",
				"path", path,
				"component", component,
				"dir", resolved,
			)

			return "", false
		}

		resolved = appendComponent(resolved, match)
	}

	if !lastExists {
		resolved = appendComponent(resolved, components[len(components)-1])
	}

	if resolved == "" {
		resolved = "."
	}

	return resolved, true
}

// findInDir looks up name in dir, preferring the exact spelling over a
// case-insensitive one.
func (r *Resolver) findInDir(dir string, name string) (string, bool) {
	if dir == "" {
		dir = "."
	}

	entries, err := r.osHandler.ReadDir(dir)
	if err != nil && len(entries) == 0 {
		return "", false
	}

	for _, entry := range entries {
		if entry.Name() == name {
			return name, true
		}
	}

	folder := cases.Fold()
	want := folder.String(name)

	for _, entry := range entries {
		if folder.String(entry.Name()) == want {
			return entry.Name(), true
		}
	}

	return "", false
}

func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}

	c := path[0]

	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func appendComponent(base string, component string) string {
	switch {
	case component == "":
		return base
	case base == "":
		return component
	case strings.HasSuffix(base, "/"):
		return base + component
	default:
		return base + "/" + component
	}
}
