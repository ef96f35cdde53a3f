package domain

// DataCategory classifies the kind of compensation data a survey row carries.
type DataCategory string

const (
	CategoryCompensation DataCategory = "COMPENSATION"
	CategoryCallPay      DataCategory = "CALL_PAY"
	CategoryMoonlighting DataCategory = "MOONLIGHTING"
	CategoryCustom       DataCategory = "CUSTOM"
)

// Metrics holds the reported statistics for one variable on one survey row.
// Percentile values at or below zero mean "no data for this band", not a
// true zero compensation value.
type Metrics struct {
	NOrgs       int     `json:"n_orgs" validate:"min=0"`
	NIncumbents int     `json:"n_incumbents" validate:"min=0"`
	P25         float64 `json:"p25"`
	P50         float64 `json:"p50"`
	P75         float64 `json:"p75"`
	P90         float64 `json:"p90"`
}

// HasP50 reports whether the row carries usable median data for the variable.
// P50 is the canonical "data present" signal across the engine.
func (m Metrics) HasP50() bool {
	return m.P50 > 0
}

// Weight returns the incumbent count used as aggregation weight,
// defaulting to 1 when the row reports none.
func (m Metrics) Weight() float64 {
	if m.NIncumbents > 0 {
		return float64(m.NIncumbents)
	}
	return 1
}

// SurveyRow is one normalized data point from a compensation survey source.
// Rows are read-only once loaded; the engine never mutates them.
//
// Dynamic rows carry per-variable metrics in Variables, keyed by canonical
// variable name. Legacy rows instead expose flat fields per variable family
// (tcc_p50, wrvu_n_orgs, ...) collected into LegacyFields on read.
type SurveyRow struct {
	StandardizedName string             `json:"standardized_name"`
	SurveySpecialty  string             `json:"survey_specialty"`
	SurveySource     string             `json:"survey_source"`
	GeographicRegion string             `json:"geographic_region,omitempty"`
	ProviderType     string             `json:"provider_type,omitempty"`
	SurveyYear       string             `json:"survey_year,omitempty"`
	DataCategory     DataCategory       `json:"data_category,omitempty"`
	Variables        map[string]Metrics `json:"variables,omitempty" validate:"dive"`
	LegacyFields     map[string]float64 `json:"legacy_fields,omitempty"`
}

// Specialty returns the best available specialty label for matching:
// the canonical key when present, otherwise the source-reported text.
func (r SurveyRow) Specialty() string {
	if r.StandardizedName != "" {
		return r.StandardizedName
	}
	return r.SurveySpecialty
}

// FilterCriteria selects survey rows along the engine's dimensions.
// Empty or sentinel ("All ...") values place no constraint on a dimension.
type FilterCriteria struct {
	Specialty        string `json:"specialty,omitempty"`
	SurveySource     string `json:"survey_source,omitempty"`
	GeographicRegion string `json:"geographic_region,omitempty"`
	ProviderType     string `json:"provider_type,omitempty"`
	Year             string `json:"year,omitempty"`
	DataCategory     string `json:"data_category,omitempty"`
}

// IsZero reports whether no dimension is constrained.
func (c FilterCriteria) IsZero() bool {
	return c == FilterCriteria{}
}

// VariableAggregate is a Metrics-shaped aggregate for one variable across a
// row set. Counts are float64 because the simple aggregate divides the raw
// totals by the number of contributing rows.
type VariableAggregate struct {
	NOrgs       float64 `json:"n_orgs"`
	NIncumbents float64 `json:"n_incumbents"`
	P25         float64 `json:"p25"`
	P50         float64 `json:"p50"`
	P75         float64 `json:"p75"`
	P90         float64 `json:"p90"`
}

// Summary pairs the simple (row-count-weighted) and incumbent-weighted
// aggregates per variable name. A nil entry means no contributing row had
// data for that variable.
type Summary struct {
	Simple   map[string]*VariableAggregate `json:"simple"`
	Weighted map[string]*VariableAggregate `json:"weighted"`
}

// GroupedSummary keys summaries by group value (typically specialty) for
// grouped display modes.
type GroupedSummary map[string]Summary
