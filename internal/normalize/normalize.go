// Package normalize canonicalizes free-text specialty and variable names so
// values from different survey providers can be compared. The same
// normalization is applied to specialty names and as the pre-step for
// variable-name canonicalization.
package normalize

import (
	"strings"
	"unicode"
)

var punctReplacer = strings.NewReplacer("(", " ", ")", " ", ":", " ")

// Normalize canonicalizes a name for comparison: lowercase, parentheses and
// colons become spaces, the standalone conjunction "and" is dropped, and
// whitespace collapses to single spaces. Total and idempotent; an empty
// string normalizes to an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := punctReplacer.Replace(strings.ToLower(text))

	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if f == "and" {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// TitleCaseWords folds a label to canonical title-cased words with single
// spacing, so "staff  physician" and "STAFF PHYSICIAN" compare equal.
func TitleCaseWords(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
