// Package normalize produces the canonical lookup keys stored alongside
// display values (normalized_user_name, normalized_email, normalized_name).
package normalize

import "strings"

// UserName returns the normalized form of a user name: trimmed and upper-cased.
func UserName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Email returns the normalized form of an email address.
func Email(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// RoleName returns the normalized form of a role name.
func RoleName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
