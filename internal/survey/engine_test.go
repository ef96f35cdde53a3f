package survey

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/internal/cache"
	"surveybench/pkg/contracts/domain"
)

func TestNewEngineNilRows(t *testing.T) {
	_, err := NewEngine(nil)
	require.ErrorIs(t, err, ErrNoRows)
}

func TestNewEngineEmptyRows(t *testing.T) {
	engine, err := NewEngine([]domain.SurveyRow{})
	require.NoError(t, err)
	assert.Empty(t, engine.Filter(context.Background(), domain.FilterCriteria{}))
}

func TestEngineFilterAndSummarize(t *testing.T) {
	ctx := context.Background()
	rows := filterFixture()
	for i := range rows {
		rows[i].Variables = map[string]domain.Metrics{
			"tcc": {NOrgs: 2, NIncumbents: 10, P50: 300000 + float64(i)*1000},
		}
	}

	engine, err := NewEngine(rows)
	require.NoError(t, err)

	filtered := engine.Filter(ctx, domain.FilterCriteria{Specialty: "Cardiology"})
	assert.Len(t, filtered, 4)

	summary := engine.Summarize(ctx, domain.FilterCriteria{Specialty: "Cardiology"}, []string{"tcc"})
	require.NotNil(t, summary.Weighted["tcc"])
	assert.Equal(t, 40.0, summary.Weighted["tcc"].NIncumbents)
}

func TestEngineServesFromCache(t *testing.T) {
	ctx := context.Background()
	rows := filterFixture()

	results := cache.New(nil, nil)
	engine, err := NewEngine(rows, WithResultCache(results))
	require.NoError(t, err)

	criteria := domain.FilterCriteria{Specialty: "Cardiology"}
	first := engine.Filter(ctx, criteria)
	entriesAfterFirst := results.Len()
	second := engine.Filter(ctx, criteria)

	assert.Equal(t, first, second)
	assert.Equal(t, entriesAfterFirst, results.Len(), "second call must not add entries")
	assert.Greater(t, entriesAfterFirst, 0)
}

func TestEngineInvalidateCache(t *testing.T) {
	ctx := context.Background()
	rows := filterFixture()

	results := cache.New(nil, nil)
	engine, err := NewEngine(rows, WithResultCache(results))
	require.NoError(t, err)

	engine.Filter(ctx, domain.FilterCriteria{Specialty: "Cardiology"})
	require.Greater(t, results.Len(), 0)

	engine.InvalidateCache()
	assert.Equal(t, 0, results.Len())
}

func TestEngineSummarizeBySpecialty(t *testing.T) {
	ctx := context.Background()
	rows := []domain.SurveyRow{
		{StandardizedName: "Cardiology", SurveySource: "MGMA", Variables: map[string]domain.Metrics{"tcc": {NIncumbents: 20, P50: 300000}}},
		{StandardizedName: "Cardiology", SurveySource: "SullivanCotter", Variables: map[string]domain.Metrics{"tcc": {NIncumbents: 10, P50: 330000}}},
		{StandardizedName: "Dermatology", SurveySource: "MGMA", Variables: map[string]domain.Metrics{"tcc": {NIncumbents: 5, P50: 420000}}},
	}

	engine, err := NewEngine(rows)
	require.NoError(t, err)

	grouped := engine.SummarizeBySpecialty(ctx, domain.FilterCriteria{}, []string{"tcc"})
	require.Len(t, grouped, 2)

	cardio := grouped["Cardiology"].Weighted["tcc"]
	require.NotNil(t, cardio)
	assert.InDelta(t, 310000, cardio.P50, 1e-9)
	assert.InDelta(t, 315000, grouped["Cardiology"].Simple["tcc"].P50, 1e-9)
}

func TestEngineWithMetricsAndCategoryLabels(t *testing.T) {
	ctx := context.Background()
	rows := []domain.SurveyRow{
		{StandardizedName: "Cardiology", SurveySource: "Internal", DataCategory: domain.CategoryCustom},
	}

	reg := prometheus.NewRegistry()
	engine, err := NewEngine(rows,
		WithMetrics(reg),
		WithCategoryLabels(map[string]domain.DataCategory{"House Survey": domain.CategoryCustom}),
	)
	require.NoError(t, err)

	filtered := engine.Filter(ctx, domain.FilterCriteria{DataCategory: "House Survey"})
	assert.Len(t, filtered, 1)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
