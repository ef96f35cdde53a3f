package survey

import (
	"surveybench/pkg/contracts/domain"
)

// legacy flat-field suffixes, read as "${prefix}_${suffix}" off the row.
const (
	suffixNOrgs       = "n_orgs"
	suffixNIncumbents = "n_incumbents"
	suffixP25         = "p25"
	suffixP50         = "p50"
	suffixP75         = "p75"
	suffixP90         = "p90"
)

// Resolver maps a requested variable name to the Metrics a row reports for
// it, hiding the difference between dynamic variable bags and legacy flat
// fields behind one seam.
type Resolver struct {
	table *VariableTable
}

// NewResolver creates a resolver over the given variable table. A nil table
// uses the built-in defaults.
func NewResolver(table *VariableTable) *Resolver {
	if table == nil {
		table = DefaultVariableTable()
	}
	return &Resolver{table: table}
}

// Table returns the variable table the resolver consults.
func (r *Resolver) Table() *VariableTable {
	return r.table
}

// Resolve returns the row's metrics for the requested variable, or nil when
// neither the dynamic nor the legacy representation yields a usable median.
// Nil means "no data", never "zero compensation".
func (r *Resolver) Resolve(row domain.SurveyRow, variableName string) *domain.Metrics {
	canonical := r.table.Canonical(variableName)

	if metrics, ok := row.Variables[canonical]; ok {
		if !metrics.HasP50() {
			return nil
		}
		m := metrics
		return &m
	}

	prefix, ok := r.table.LegacyPrefix(canonical)
	if !ok {
		return nil
	}
	return synthesizeLegacy(row, prefix)
}

// synthesizeLegacy builds a Metrics record from a legacy row's flat fields.
func synthesizeLegacy(row domain.SurveyRow, prefix string) *domain.Metrics {
	if len(row.LegacyFields) == 0 {
		return nil
	}

	field := func(suffix string) float64 {
		return row.LegacyFields[prefix+"_"+suffix]
	}

	m := domain.Metrics{
		NOrgs:       int(field(suffixNOrgs)),
		NIncumbents: int(field(suffixNIncumbents)),
		P25:         field(suffixP25),
		P50:         field(suffixP50),
		P75:         field(suffixP75),
		P90:         field(suffixP90),
	}
	if !m.HasP50() {
		return nil
	}
	return &m
}
