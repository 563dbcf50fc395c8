package portability

import "path"

// basename mirrors [path.Base], which already handles trailing slashes and
// the empty path.
func basename(p string) string {
	return path.Base(p)
}

// dirname mirrors [path.Dir].
func dirname(p string) string {
	return path.Dir(p)
}
