// Package utils provides small, generic helpers shared across layers.
// Nothing in here knows about tickets, users, or HTTP.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int and returns def when s is empty
// or not a valid integer. Query parameters such as page and per_page go
// through this before clamping.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
