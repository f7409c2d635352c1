package validators

import (
	"strings"
	"unicode/utf8"
)

// Clean trims surrounding whitespace and collapses inner runs to one space.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MinLen counts runes, not bytes, after trimming.
func MinLen(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

// Missing returns the names of the fields whose value is blank, in the
// order given. fields alternates name and value.
func Missing(fields ...string) []string {
	var out []string
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			out = append(out, fields[i])
		}
	}
	return out
}
