package survey

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"surveybench/internal/cache"
	"surveybench/pkg/contracts/domain"
)

// ErrNoRows signals an upstream contract violation: the engine was handed a
// nil row collection instead of a (possibly empty) slice of normalized rows.
var ErrNoRows = errors.New("survey: row collection must not be nil")

// Engine is the facade over one immutable row collection: it owns the
// dimension indexes, consults the result cache for filtering and
// aggregation, and recomputes on miss. Derived results are never mutated;
// they are discarded wholesale when the inputs change.
type Engine struct {
	rows        []domain.SurveyRow
	indexes     *Indexes
	fingerprint string

	filter     *FilterEngine
	aggregator *Aggregator
	results    *cache.ResultCache
	logger     *slog.Logger

	filterDuration    prometheus.Observer
	summarizeDuration prometheus.Observer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithVariableTable sets the variable canonicalization table.
func WithVariableTable(table *VariableTable) EngineOption {
	return func(e *Engine) { e.aggregator = NewAggregator(NewResolver(table), e.logger) }
}

// WithResultCache sets the result cache. Without one the engine computes
// every request from scratch.
func WithResultCache(c *cache.ResultCache) EngineOption {
	return func(e *Engine) { e.results = c }
}

// WithCategoryLabels adds display-label translations for the data-category
// filter dimension.
func WithCategoryLabels(labels map[string]domain.DataCategory) EngineOption {
	return func(e *Engine) {
		for label, category := range labels {
			e.filter.AddCategoryLabel(label, category)
		}
	}
}

// WithMetrics registers filter/summarize duration histograms on reg.
func WithMetrics(reg prometheus.Registerer) EngineOption {
	return func(e *Engine) {
		durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "surveybench_engine_duration_seconds",
			Help:    "Duration of engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"})
		reg.MustRegister(durations)
		e.filterDuration = durations.WithLabelValues("filter")
		e.summarizeDuration = durations.WithLabelValues("summarize")
	}
}

// NewEngine builds an engine over an immutable row collection. The rows must
// not be nil; an empty slice is a valid (if unhelpful) input.
func NewEngine(rows []domain.SurveyRow, opts ...EngineOption) (*Engine, error) {
	if rows == nil {
		return nil, ErrNoRows
	}

	e := &Engine{
		rows:   rows,
		logger: slog.Default(),
	}
	e.filter = NewFilterEngine(e.logger)
	e.aggregator = NewAggregator(nil, e.logger)

	for _, opt := range opts {
		opt(e)
	}
	e.filter.logger = e.logger
	e.aggregator.logger = e.logger

	start := time.Now()
	e.indexes = BuildIndexes(rows)
	e.fingerprint = cache.RowSetFingerprint(rows)

	e.logger.Info("survey engine ready",
		slog.Int("rows", len(rows)),
		slog.Int("specialties", len(e.indexes.Specialty)),
		slog.Int("sources", len(e.indexes.Source)),
		slog.Duration("index_build", time.Since(start)))

	return e, nil
}

// Rows returns the engine's row collection.
func (e *Engine) Rows() []domain.SurveyRow {
	return e.rows
}

// Indexes returns the engine's dimension indexes.
func (e *Engine) Indexes() *Indexes {
	return e.indexes
}

// Filter returns the rows matching the criteria, served from cache when the
// same criteria were applied to this row collection before.
func (e *Engine) Filter(ctx context.Context, criteria domain.FilterCriteria) []domain.SurveyRow {
	ids := e.filterIDs(ctx, criteria)
	out := make([]domain.SurveyRow, len(ids))
	for i, id := range ids {
		out[i] = e.rows[id]
	}
	return out
}

func (e *Engine) filterIDs(ctx context.Context, criteria domain.FilterCriteria) []int {
	key := cache.FilterKey(e.fingerprint, criteria)
	if e.results != nil {
		if cached, ok := e.results.Get(key); ok {
			return cached.([]int)
		}
	}

	start := time.Now()
	ids := e.filter.Filter(e.rows, e.indexes, criteria)
	e.observe(e.filterDuration, start)

	e.logger.DebugContext(ctx, "filtered rows",
		slog.Int("matched", len(ids)),
		slog.Int("total", len(e.rows)))

	if e.results != nil {
		e.results.Set(key, ids)
	}
	return ids
}

// Summarize computes the flat (engine-wide) summary for the variables over
// the rows matching the criteria.
func (e *Engine) Summarize(ctx context.Context, criteria domain.FilterCriteria, variables []string) domain.Summary {
	key := cache.SummaryKey(e.fingerprint, criteria, variables, "")
	if e.results != nil {
		if cached, ok := e.results.Get(key); ok {
			return cached.(domain.Summary)
		}
	}

	ids := e.filterIDs(ctx, criteria)

	start := time.Now()
	summary := e.aggregator.Summarize(e.rows, ids, variables)
	e.observe(e.summarizeDuration, start)

	if e.results != nil {
		e.results.Set(key, summary)
	}
	return summary
}

// SummarizeBySpecialty computes one summary per canonical specialty over the
// rows matching the criteria, for grouped display.
func (e *Engine) SummarizeBySpecialty(ctx context.Context, criteria domain.FilterCriteria, variables []string) domain.GroupedSummary {
	key := cache.SummaryKey(e.fingerprint, criteria, variables, "specialty")
	if e.results != nil {
		if cached, ok := e.results.Get(key); ok {
			return cached.(domain.GroupedSummary)
		}
	}

	ids := e.filterIDs(ctx, criteria)

	start := time.Now()
	grouped := e.aggregator.SummarizeGrouped(e.rows, ids, variables, nil)
	e.observe(e.summarizeDuration, start)

	if e.results != nil {
		e.results.Set(key, grouped)
	}
	return grouped
}

// InvalidateCache drops all memoized results. Callers invoke this on
// specialty-mapping or variable-table changes.
func (e *Engine) InvalidateCache() {
	if e.results != nil {
		e.results.Clear()
	}
}

func (e *Engine) observe(obs prometheus.Observer, start time.Time) {
	if obs != nil {
		obs.Observe(time.Since(start).Seconds())
	}
}
