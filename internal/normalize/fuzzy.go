package normalize

import "strings"

// minTokenLen is the shortest token considered during fuzzy matching.
// Shorter fragments ("of", initials) create too many false positives across
// survey vocabularies.
const minTokenLen = 2

// SpecialtyMatches reports whether a specialty filter selection matches a
// row-reported specialty. Both sides are normalized first; exact equality
// short-circuits. Otherwise every qualifying filter token must have some row
// token that contains it or is contained by it, in any order, which lets
// "Pediatrics (general)" match "General Pediatrics" or "Pediatrics: General".
//
// A filter whose tokens are all shorter than the minimum never matches.
func SpecialtyMatches(filterSpecialty, rowSpecialty string) bool {
	f := Normalize(filterSpecialty)
	r := Normalize(rowSpecialty)
	if f == r {
		return f != ""
	}

	filterTokens := qualifyingTokens(f)
	if len(filterTokens) == 0 {
		return false
	}
	rowTokens := qualifyingTokens(r)
	if len(rowTokens) == 0 {
		return false
	}

	for _, ft := range filterTokens {
		if !anyTokenOverlaps(ft, rowTokens) {
			return false
		}
	}
	return true
}

func qualifyingTokens(normalized string) []string {
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLen {
			out = append(out, f)
		}
	}
	return out
}

func anyTokenOverlaps(token string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(c, token) || strings.Contains(token, c) {
			return true
		}
	}
	return false
}
