// ABOUTME: Length and truncation helpers measured in UTF-16 code units.
// ABOUTME: Keeps "characters" consistent with data written by other catalog clients.

package textutil

import "unicode/utf8"

// CodeUnits returns the length of s in UTF-16 code units.
func CodeUnits(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// Truncate cuts s to at most max UTF-16 code units. A surrogate pair that
// would straddle the limit is dropped entirely.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := 0
	for i, r := range s {
		u := runeUnits(r)
		if n+u > max {
			return s[:i]
		}
		n += u
	}
	return s
}

func runeUnits(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
