package qa

import "strings"

// Truncate trims s and, when it is longer than limit characters, cuts it back to the
// last full stop within the first limit-10 characters. A non-positive limit disables
// truncation.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}

	cut := limit - 10
	if cut < 1 {
		cut = limit
	}
	head := string(runes[:cut])
	if i := strings.LastIndex(head, "."); i >= 0 {
		head = head[:i]
	}
	return head + "."
}
