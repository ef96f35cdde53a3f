package survey

import (
	"log/slog"
	"sort"

	"surveybench/pkg/contracts/domain"
)

// Aggregator computes simple and incumbent-weighted percentile summaries per
// selected variable. Each percentile band keeps its own contributor set: a
// row that reports p50 but omits p25 contributes to the p50 average without
// dragging p25 toward zero.
type Aggregator struct {
	resolver *Resolver
	logger   *slog.Logger
}

// NewAggregator creates an aggregator. A nil resolver uses the default
// variable table; a nil logger uses slog.Default().
func NewAggregator(resolver *Resolver, logger *slog.Logger) *Aggregator {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{resolver: resolver, logger: logger}
}

// bandAccumulator collects the {value, weight} pairs for one percentile band.
type bandAccumulator struct {
	sum         float64
	weightedSum float64
	weightTotal float64
	count       int
}

func (b *bandAccumulator) add(value, weight float64) {
	b.sum += value
	b.weightedSum += value * weight
	b.weightTotal += weight
	b.count++
}

func (b *bandAccumulator) simpleMean() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sum / float64(b.count)
}

func (b *bandAccumulator) weightedMean() float64 {
	if b.weightTotal == 0 {
		return 0
	}
	return b.weightedSum / b.weightTotal
}

// Summarize computes the simple and weighted aggregates for each selected
// variable across the identified rows. Variables with no contributing median
// anywhere get nil entries in both maps.
func (a *Aggregator) Summarize(rows []domain.SurveyRow, rowIDs []int, variables []string) domain.Summary {
	summary := domain.Summary{
		Simple:   make(map[string]*domain.VariableAggregate, len(variables)),
		Weighted: make(map[string]*domain.VariableAggregate, len(variables)),
	}

	for _, variable := range variables {
		simple, weighted := a.summarizeVariable(rows, rowIDs, variable)
		summary.Simple[variable] = simple
		summary.Weighted[variable] = weighted
	}

	return summary
}

func (a *Aggregator) summarizeVariable(rows []domain.SurveyRow, rowIDs []int, variable string) (*domain.VariableAggregate, *domain.VariableAggregate) {
	var p25, p50, p75, p90 bandAccumulator
	var totalOrgs, totalIncumbents int

	for _, id := range rowIDs {
		metrics := a.resolver.Resolve(rows[id], variable)
		if metrics == nil {
			continue
		}

		// Totals run over every row with any resolved metric; they are not
		// scaled by per-band contributor counts.
		totalOrgs += metrics.NOrgs
		totalIncumbents += metrics.NIncumbents

		weight := metrics.Weight()
		if metrics.P25 > 0 {
			p25.add(metrics.P25, weight)
		}
		if metrics.P50 > 0 {
			p50.add(metrics.P50, weight)
		}
		if metrics.P75 > 0 {
			p75.add(metrics.P75, weight)
		}
		if metrics.P90 > 0 {
			p90.add(metrics.P90, weight)
		}
	}

	// The median is the canonical "data present" signal: no p50 contributor
	// means no data for the variable at all.
	if p50.count == 0 {
		return nil, nil
	}

	simple := &domain.VariableAggregate{
		NOrgs:       float64(totalOrgs) / float64(p50.count),
		NIncumbents: float64(totalIncumbents) / float64(p50.count),
		P25:         p25.simpleMean(),
		P50:         p50.simpleMean(),
		P75:         p75.simpleMean(),
		P90:         p90.simpleMean(),
	}
	weighted := &domain.VariableAggregate{
		NOrgs:       float64(totalOrgs),
		NIncumbents: float64(totalIncumbents),
		P25:         p25.weightedMean(),
		P50:         p50.weightedMean(),
		P75:         p75.weightedMean(),
		P90:         p90.weightedMean(),
	}
	return simple, weighted
}

// SummarizeGrouped computes one summary per group key, typically the row's
// canonical specialty. Group keys come from keyFn; rows yielding an empty
// key are skipped.
func (a *Aggregator) SummarizeGrouped(rows []domain.SurveyRow, rowIDs []int, variables []string, keyFn func(domain.SurveyRow) string) domain.GroupedSummary {
	if keyFn == nil {
		keyFn = func(row domain.SurveyRow) string { return row.Specialty() }
	}

	groups := make(map[string][]int)
	for _, id := range rowIDs {
		key := keyFn(rows[id])
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], id)
	}

	grouped := make(domain.GroupedSummary, len(groups))
	for key, ids := range groups {
		grouped[key] = a.Summarize(rows, ids, variables)
	}

	a.logger.Debug("computed grouped summaries",
		slog.Int("groups", len(grouped)),
		slog.Int("variables", len(variables)))

	return grouped
}

// GroupKeys returns the sorted group keys of a grouped summary, for
// deterministic output ordering.
func GroupKeys(grouped domain.GroupedSummary) []string {
	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
