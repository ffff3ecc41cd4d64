// utils/validator.go - Request input helpers
package utils

import (
	"regexp"
	"strings"
)

// Conference short names: leading letter, then uppercase letters and digits,
// 2 to 12 characters total (ICSE, NeurIPS-style names normalize to this).
var acronymPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}$`)

// SanitizeInput trims whitespace and strips null bytes from free-text fields
// before they reach storage.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	return strings.ReplaceAll(input, "\x00", "")
}

// NormalizeAcronym sanitizes and uppercases a conference acronym.
func NormalizeAcronym(raw string) string {
	return strings.ToUpper(SanitizeInput(raw))
}

// ValidAcronym reports whether a normalized acronym is usable as a conference
// short name.
func ValidAcronym(acronym string) bool {
	return acronymPattern.MatchString(acronym)
}
