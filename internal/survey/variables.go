package survey

import (
	"strings"

	"surveybench/internal/normalize"
)

// VariableTable maps requested variable names onto the canonical names used
// in dynamic variable bags and onto the field prefixes used by legacy flat
// rows. The defaults cover the variable families every supported survey
// source reports; config may extend the table for custom sources.
type VariableTable struct {
	aliases        map[string]string // canonicalized variant -> canonical variable name
	legacyPrefixes map[string]string // canonical variable name -> legacy field prefix
}

// DefaultVariableTable returns the built-in canonicalization table.
func DefaultVariableTable() *VariableTable {
	return &VariableTable{
		aliases: map[string]string{
			"total_cash_compensation": "tcc",
			"total_compensation":      "tcc",
			"wrvu":                    "work_rvus",
			"wrvus":                   "work_rvus",
			"work_rvu":                "work_rvus",
			"tcc_per_wrvu":            "tcc_per_work_rvu",
			"cf":                      "tcc_per_work_rvu",
			"cfs":                     "tcc_per_work_rvu",
			"conversion_factor":       "tcc_per_work_rvu",
			"on_call_pay":             "on_call",
			"on_call_rate":            "on_call",
			"base":                    "base_salary",
		},
		legacyPrefixes: map[string]string{
			"tcc":              "tcc",
			"work_rvus":        "wrvu",
			"tcc_per_work_rvu": "cf",
			"on_call":          "on_call",
			"base_salary":      "base",
		},
	}
}

// AddAlias registers an additional variant spelling for a canonical variable.
func (t *VariableTable) AddAlias(variant, canonical string) {
	t.aliases[canonicalKey(variant)] = canonicalKey(canonical)
}

// AddLegacyPrefix registers a legacy flat-field prefix for a canonical variable.
func (t *VariableTable) AddLegacyPrefix(canonical, prefix string) {
	t.legacyPrefixes[canonicalKey(canonical)] = prefix
}

// Canonical resolves a requested variable name to its canonical form:
// normalized, underscore-joined, and alias-folded.
func (t *VariableTable) Canonical(name string) string {
	key := canonicalKey(name)
	if canonical, ok := t.aliases[key]; ok {
		return canonical
	}
	return key
}

// LegacyPrefix returns the legacy field prefix for a canonical variable name.
func (t *VariableTable) LegacyPrefix(canonical string) (string, bool) {
	prefix, ok := t.legacyPrefixes[canonical]
	return prefix, ok
}

// canonicalKey applies the shared name normalization and folds spaces and
// hyphens to underscores, so "Work RVUs", "work-rvus" and "work_rvus" all
// produce the same key.
func canonicalKey(name string) string {
	s := strings.ReplaceAll(name, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ReplaceAll(normalize.Normalize(s), " ", "_")
}
