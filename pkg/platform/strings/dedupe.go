// Package strings holds small helpers for list-valued settings.
package strings

import (
	"slices"
	"strings"
)

// SplitList splits a comma separated setting such as a broker list. Entries
// are trimmed, blanks dropped and repeats removed, keeping first-seen order.
func SplitList(v string) []string {
	return DedupeAndTrim(strings.Split(v, ","))
}

// DedupeAndTrim trims each value and drops blanks and repeats. Order is
// preserved. A nil or empty input is returned unchanged.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
