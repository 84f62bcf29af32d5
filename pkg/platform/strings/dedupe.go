// Package strings holds helpers for list-valued settings such as CORS origins
// and broker addresses.
package strings

import (
	"strings"
)

// Normalizer maps a raw element to its canonical form. An empty result drops
// the element.
type Normalizer func(string) string

// Dedupe normalizes every element and keeps the first occurrence of each
// non-empty result. Order is preserved.
func Dedupe(values []string, normalize Normalizer) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}

// DedupeAndTrim drops blank and repeated elements after trimming whitespace.
func DedupeAndTrim(values []string) []string {
	return Dedupe(values, strings.TrimSpace)
}

// DedupeOrigins canonicalizes CORS origins: trimmed, lowercased and without a
// trailing slash, so "https://Rishta.com/" and "https://rishta.com" collapse.
func DedupeOrigins(values []string) []string {
	return Dedupe(values, func(v string) string {
		return strings.TrimRight(strings.ToLower(strings.TrimSpace(v)), "/")
	})
}
