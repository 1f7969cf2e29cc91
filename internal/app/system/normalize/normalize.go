// internal/app/system/normalize/normalize.go

// Package normalize holds small input normalization helpers applied
// before values are validated or written to the store.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username trims an enrollment ID / login name and uppercases it.
// Enrollment IDs encode year, course, and branch in fixed positions, and
// the encoded letters are canonically uppercase.
func Username(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Phone strips spaces and dashes from a phone number.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

// Skill lowercases and trims a staff skill tag.
func Skill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Query trims free-text search input.
func Query(s string) string {
	return strings.TrimSpace(s)
}
