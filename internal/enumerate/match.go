// Package enumerate lists directory entries matching a Windows-style
// wildcard pattern, in the order the find functions return them.
package enumerate

import (
	"golang.org/x/text/cases"
)

// Match reports whether name matches pattern, where '*' matches any run of
// characters (including none) and '?' matches exactly one. With ignoreCase
// characters are compared by their case folding, one character at a time,
// so '?' still stands for a single character of name. Unlike shell
// globbing a leading '.' needs no explicit match.
func Match(pattern string, name string, ignoreCase bool) bool {
	equal := func(a, b rune) bool {
		return a == b
	}

	if ignoreCase {
		folder := cases.Fold()
		equal = func(a, b rune) bool {
			return a == b || folder.String(string(a)) == folder.String(string(b))
		}
	}

	return match([]rune(pattern), []rune(name), equal)
}

func match(pattern []rune, name []rune, equal func(a, b rune) bool) bool {
	// Position after the last '*' seen and the name position it resumes at.
	star, resume := -1, 0
	p, n := 0, 0

	for n < len(name) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			star, resume = p, n
			p++
		case p < len(pattern) && (pattern[p] == '?' || equal(pattern[p], name[n])):
			p++
			n++
		case star >= 0:
			resume++
			p, n = star+1, resume
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}

	return p == len(pattern)
}
