package services

import "strings"

// Normalizer maps a free-text name or title onto a canonical comparison
// key. It is injected into the resolver so the matching policy can be
// swapped without touching transaction logic.
type Normalizer func(string) string

// NormalizeName trims, collapses internal whitespace, and lowercases.
// "  Jane   DOE " and "jane doe" normalize to the same key.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
