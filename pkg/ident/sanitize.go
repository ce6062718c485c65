// Package ident turns free-form display names into Go identifiers.
package ident

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Placeholder is the identifier produced for an empty name.
const Placeholder = "_"

// IsStart reports whether r may begin a Go identifier.
func IsStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsContinue reports whether r may appear after the first rune of a Go
// identifier.
func IsContinue(r rune) bool {
	return IsStart(r) || unicode.IsDigit(r)
}

// IsValid reports whether s is a syntactically valid identifier.
func IsValid(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		if i == 0 && !IsStart(r) || !IsContinue(r) {
			return false
		}
	}
	return true
}

// Sanitize maps an arbitrary string onto a valid identifier.
//
// Runs of characters that cannot appear in an identifier collapse into a
// single underscore, a leading character that cannot start one gets an
// underscore in front, and a trailing separator is trimmed. The result is
// never empty and valid identifiers come back unchanged. Distinct names
// may sanitize to the same identifier.
func Sanitize(s string) string {
	if s == "" {
		return Placeholder
	}

	var id strings.Builder
	id.Grow(len(s) + 1)

	first, size := utf8.DecodeRuneInString(s)
	underscored := false

	switch {
	case IsStart(first):
		id.WriteRune(first)
	case IsContinue(first):
		id.WriteByte('_')
		id.WriteRune(first)
	default:
		id.WriteByte('_')
		underscored = true
	}

	for _, r := range s[size:] {
		if IsContinue(r) {
			id.WriteRune(r)
			underscored = false
		} else if !underscored {
			id.WriteByte('_')
			underscored = true
		}
	}

	out := id.String()
	// Only a separator we inserted is trimmed, so "foo_" stays "foo_". A
	// lone underscore is the placeholder and stays too.
	if underscored && len(out) > 1 {
		out = out[:len(out)-1]
	}
	return out
}
