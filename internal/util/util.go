package util

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Round rounds to 2 decimals
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

// AlmostEqual compares two amounts within tolerance.
func AlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// UniqueName returns prefix followed by a short random suffix, used for test data
// that must not collide with earlier runs against the same deployment.
func UniqueName(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	if prefix == "" {
		return suffix
	}
	return prefix + "_" + suffix
}

// UniqueEmail returns an address on the reserved example.com domain.
func UniqueEmail(prefix string) string {
	return UniqueName(prefix) + "@example.com"
}
