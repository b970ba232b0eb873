// Package fold provides case-insensitive string matching used by theme,
// search and title rules.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key returns the case-folded, trimmed form of s.
func Key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Contains reports whether substr appears in s, ignoring case.
// An empty substr never matches.
func Contains(s, substr string) bool {
	needle := Key(substr)
	if needle == "" {
		return false
	}
	return strings.Contains(cases.Fold().String(s), needle)
}

// ContainsAny reports whether any of substrs appears in s, ignoring case.
func ContainsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if Contains(s, sub) {
			return true
		}
	}
	return false
}
