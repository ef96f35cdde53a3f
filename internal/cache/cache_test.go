package cache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func TestResultCacheGetSet(t *testing.T) {
	c := New(nil, nil)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("key", []int{1, 2, 3})
	value, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, value)
	assert.Equal(t, 1, c.Len())

	c.Set("key", []int{4})
	value, _ = c.Get("key")
	assert.Equal(t, []int{4}, value, "set replaces previous entries")
	assert.Equal(t, 1, c.Len())
}

func TestResultCacheClear(t *testing.T) {
	c := New(nil, nil)
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestResultCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, nil)

	c.Get("missing")
	c.Set("key", "value")
	c.Get("key")
	c.Get("key")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.size))
}

func TestRowSetFingerprintDeterministic(t *testing.T) {
	rows := []domain.SurveyRow{
		{StandardizedName: "Cardiology", SurveySource: "MGMA", SurveyYear: "2024"},
		{StandardizedName: "Dermatology", SurveySource: "ECG", SurveyYear: "2023"},
	}

	assert.Equal(t, RowSetFingerprint(rows), RowSetFingerprint(rows))

	changed := append([]domain.SurveyRow(nil), rows...)
	changed[1].SurveyYear = "2024"
	assert.NotEqual(t, RowSetFingerprint(rows), RowSetFingerprint(changed))
}

func TestRowSetFingerprintFieldBoundaries(t *testing.T) {
	// Field separators keep adjacent fields from colliding.
	a := []domain.SurveyRow{{StandardizedName: "ab", SurveySource: "c"}}
	b := []domain.SurveyRow{{StandardizedName: "a", SurveySource: "bc"}}
	assert.NotEqual(t, RowSetFingerprint(a), RowSetFingerprint(b))
}

func TestFilterKeyDistinguishesCriteria(t *testing.T) {
	fp := "abc123"
	k1 := FilterKey(fp, domain.FilterCriteria{Specialty: "Cardiology"})
	k2 := FilterKey(fp, domain.FilterCriteria{SurveySource: "Cardiology"})
	assert.NotEqual(t, k1, k2, "same value on different dimensions must not collide")
}

func TestSummaryKeyIncludesVariablesAndGrouping(t *testing.T) {
	fp := "abc123"
	criteria := domain.FilterCriteria{Specialty: "Cardiology"}

	flat := SummaryKey(fp, criteria, []string{"tcc"}, "")
	grouped := SummaryKey(fp, criteria, []string{"tcc"}, "specialty")
	moreVars := SummaryKey(fp, criteria, []string{"tcc", "wrvu"}, "")

	assert.NotEqual(t, flat, grouped)
	assert.NotEqual(t, flat, moreVars)
}
