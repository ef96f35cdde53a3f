package survey

import (
	"log/slog"
	"sort"
	"strings"

	"surveybench/internal/normalize"
	"surveybench/pkg/contracts/domain"
)

// appSignatures mark provider types that belong to the Advanced Practice
// Provider family. Call Pay rows matching none of these still represent
// physician compensation even when their provider type carries no real
// distinction.
var appSignatures = []string{
	"advanced practice provider",
	"app",
	"nurse practitioner",
	"np",
	"physician assistant",
	"pa",
	"crna",
}

// defaultCategoryLabels translates display labels to internal categories.
var defaultCategoryLabels = map[string]domain.DataCategory{
	"compensation": domain.CategoryCompensation,
	"call pay":     domain.CategoryCallPay,
	"call_pay":     domain.CategoryCallPay,
	"moonlighting": domain.CategoryMoonlighting,
	"custom":       domain.CategoryCustom,
}

// FilterEngine applies multi-dimensional filter criteria to an indexed row
// collection. Filtering is pure set intersection; dimensions are applied in
// a fixed order (specialty, source, region, provider type, category, year)
// for determinism and early exit on empty intermediate sets.
type FilterEngine struct {
	logger         *slog.Logger
	categoryLabels map[string]domain.DataCategory
}

// NewFilterEngine creates a filter engine. A nil logger uses slog.Default().
func NewFilterEngine(logger *slog.Logger) *FilterEngine {
	if logger == nil {
		logger = slog.Default()
	}
	labels := make(map[string]domain.DataCategory, len(defaultCategoryLabels))
	for k, v := range defaultCategoryLabels {
		labels[k] = v
	}
	return &FilterEngine{logger: logger, categoryLabels: labels}
}

// AddCategoryLabel registers an additional display-label translation for the
// data-category dimension.
func (f *FilterEngine) AddCategoryLabel(label string, category domain.DataCategory) {
	f.categoryLabels[normalize.Normalize(label)] = category
}

// Filter returns the IDs of the rows satisfying every constrained dimension,
// sorted ascending. Sentinel values ("", "All ...") bypass their dimension;
// unknown dimension values yield an empty result, never an error.
func (f *FilterEngine) Filter(rows []domain.SurveyRow, ix *Indexes, criteria domain.FilterCriteria) []int {
	result := allRowIDs(ix.RowCount())

	type step struct {
		dimension string
		value     string
		ids       func() []int
	}
	steps := []step{
		{"specialty", criteria.Specialty, func() []int { return f.specialtyIDs(ix, criteria.Specialty) }},
		{"source", criteria.SurveySource, func() []int { return ix.Source[criteria.SurveySource] }},
		{"region", criteria.GeographicRegion, func() []int { return ix.Region[criteria.GeographicRegion] }},
		{"provider_type", criteria.ProviderType, func() []int { return f.providerTypeIDs(rows, ix, criteria.ProviderType) }},
		{"category", criteria.DataCategory, func() []int { return f.categoryIDs(ix, criteria.DataCategory) }},
		{"year", criteria.Year, func() []int { return ix.Year[criteria.Year] }},
	}

	for _, s := range steps {
		if isSentinel(s.value) {
			continue
		}
		result = intersectSorted(result, s.ids())
		f.logger.Debug("applied dimension filter",
			slog.String("dimension", s.dimension),
			slog.String("value", s.value),
			slog.Int("remaining", len(result)))
		if len(result) == 0 {
			return []int{}
		}
	}

	return result
}

// specialtyIDs looks up rows by exact normalized specialty key, falling back
// to a fuzzy-match union over every indexed key when the exact key is empty.
func (f *FilterEngine) specialtyIDs(ix *Indexes, specialty string) []int {
	key := normalize.Normalize(specialty)
	if ids := ix.Specialty[key]; len(ids) > 0 {
		return ids
	}

	var out []int
	for indexed, ids := range ix.Specialty {
		if normalize.SpecialtyMatches(specialty, indexed) {
			out = append(out, ids...)
		}
	}
	return sortedUnique(out)
}

// providerTypeIDs looks up rows by folded provider type. Requests for staff
// physicians additionally pick up Call Pay rows whose provider type carries
// no APP signature: those rows usually omit a real provider-type distinction
// but still represent physician compensation.
func (f *FilterEngine) providerTypeIDs(rows []domain.SurveyRow, ix *Indexes, requested string) []int {
	exact := ix.ProviderType[normalize.TitleCaseWords(requested)]

	req := normalize.Normalize(requested)
	if req != "staff physician" && req != "physician" {
		return exact
	}

	out := append([]int(nil), exact...)
	for _, id := range ix.Category[domain.CategoryCallPay] {
		if !isAPPProviderType(rows[id].ProviderType) {
			out = append(out, id)
		}
	}
	return sortedUnique(out)
}

// categoryIDs resolves a concrete category request. "All Categories" is
// treated as a sentinel by the caller; any label that translates to no known
// category selects nothing.
func (f *FilterEngine) categoryIDs(ix *Indexes, value string) []int {
	category, ok := f.parseCategory(value)
	if !ok {
		return nil
	}
	return ix.Category[category]
}

func (f *FilterEngine) parseCategory(value string) (domain.DataCategory, bool) {
	category, ok := f.categoryLabels[normalize.Normalize(value)]
	return category, ok
}

func isAPPProviderType(providerType string) bool {
	normalized := normalize.Normalize(providerType)
	if normalized == "" {
		return false
	}
	for _, sig := range appSignatures {
		if strings.Contains(normalized, sig) {
			return true
		}
	}
	return false
}

// isSentinel reports whether a criteria value places no constraint on its
// dimension: empty, "All", or any "All ..." display value.
func isSentinel(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || v == "all" || strings.HasPrefix(v, "all ")
}

func allRowIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// intersectSorted intersects two ascending ID lists, preserving order.
func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func sortedUnique(ids []int) []int {
	if len(ids) == 0 {
		return ids
	}
	sort.Ints(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
