// Package strings provides small string helpers shared across packages
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path like /areas or /depots
// ensures a single leading slash and no trailing slash; the bare root "/" is
// a valid prefix for modules mounted at the version root
// panics if the input is empty
func MustPrefix(s string) string {
	if std.TrimSpace(s) == "" {
		panic("prefix is required")
	}
	return "/" + std.Trim(std.TrimSpace(s), " /")
}

// EmptyToNil returns empty string if s is all whitespace, otherwise returns s
func EmptyToNil(s string) string {
	if std.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// Ptr returns a pointer to s, or nil if s is empty
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
