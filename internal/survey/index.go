package survey

import (
	"strings"

	"surveybench/internal/normalize"
	"surveybench/pkg/contracts/domain"
)

// Indexes holds per-dimension lookups from dimension value to the IDs of the
// rows carrying that value. Row IDs are stable indices into the row slice
// the indexes were built from; the engine never relies on object identity.
type Indexes struct {
	Specialty    map[string][]int
	Source       map[string][]int
	Region       map[string][]int
	ProviderType map[string][]int
	Year         map[string][]int
	Category     map[domain.DataCategory][]int

	rowCount int
}

// RowCount returns the number of rows the indexes were built over.
func (ix *Indexes) RowCount() int {
	return ix.rowCount
}

// BuildIndexes builds the dimension indexes for a row collection in a single
// pass. Every row lands in exactly one category bucket (inferred when the
// row predates the category field) and in zero or one bucket for the
// optional dimensions.
func BuildIndexes(rows []domain.SurveyRow) *Indexes {
	ix := &Indexes{
		Specialty:    make(map[string][]int),
		Source:       make(map[string][]int),
		Region:       make(map[string][]int),
		ProviderType: make(map[string][]int),
		Year:         make(map[string][]int),
		Category:     make(map[domain.DataCategory][]int),
		rowCount:     len(rows),
	}

	for id, row := range rows {
		if key := normalize.Normalize(row.Specialty()); key != "" {
			ix.Specialty[key] = append(ix.Specialty[key], id)
		}
		if row.SurveySource != "" {
			ix.Source[row.SurveySource] = append(ix.Source[row.SurveySource], id)
		}
		if row.GeographicRegion != "" {
			ix.Region[row.GeographicRegion] = append(ix.Region[row.GeographicRegion], id)
		}
		if row.ProviderType != "" {
			key := normalize.TitleCaseWords(row.ProviderType)
			ix.ProviderType[key] = append(ix.ProviderType[key], id)
		}
		if row.SurveyYear != "" {
			ix.Year[row.SurveyYear] = append(ix.Year[row.SurveyYear], id)
		}

		category := RowCategory(row)
		ix.Category[category] = append(ix.Category[category], id)
	}

	return ix
}

// RowCategory returns the row's data category, inferring it from the survey
// source text when the row predates the explicit category field. The
// inference rule is load-bearing backward compatibility: "call pay" in the
// source means CALL_PAY, "moonlighting" means MOONLIGHTING, anything else is
// COMPENSATION.
func RowCategory(row domain.SurveyRow) domain.DataCategory {
	if row.DataCategory != "" {
		return row.DataCategory
	}

	source := strings.ToLower(row.SurveySource)
	switch {
	case strings.Contains(source, "call pay"):
		return domain.CategoryCallPay
	case strings.Contains(source, "moonlighting"):
		return domain.CategoryMoonlighting
	default:
		return domain.CategoryCompensation
	}
}
