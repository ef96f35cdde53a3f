package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveybench/pkg/contracts/domain"
)

func sampleGrouped() domain.GroupedSummary {
	return domain.GroupedSummary{
		"Cardiology": {
			Simple: map[string]*domain.VariableAggregate{
				"tcc":  {NOrgs: 4, NIncumbents: 15, P50: 315000},
				"wrvu": nil,
			},
			Weighted: map[string]*domain.VariableAggregate{
				"tcc":  {NOrgs: 8, NIncumbents: 30, P50: 310000},
				"wrvu": nil,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.csv")
	require.NoError(t, NewWriter(nil).WriteCSV(path, sampleGrouped()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)

	// Header plus simple/weighted rows for each of tcc and wrvu.
	require.Len(t, records, 5)
	assert.Equal(t, csvHeader, records[0])

	assert.Equal(t, []string{"Cardiology", "tcc", "simple", "4.00", "15.00", "0.00", "315000.00", "0.00", "0.00"}, records[1])
	assert.Equal(t, "weighted", records[2][2])
	assert.Equal(t, "310000.00", records[2][6])

	// Nil aggregates export with empty statistic cells.
	assert.Equal(t, []string{"Cardiology", "wrvu", "simple", "", "", "", "", "", ""}, records[3])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, NewWriter(nil).WriteJSON(path, sampleGrouped()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload struct {
		Groups      domain.GroupedSummary `json:"groups"`
		GroupCount  int                   `json:"group_count"`
		GeneratedAt string                `json:"generated_at"`
		Format      string                `json:"format"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, 1, payload.GroupCount)
	assert.Equal(t, "summary_v1", payload.Format)
	assert.NotEmpty(t, payload.GeneratedAt)

	cardio, ok := payload.Groups["Cardiology"]
	require.True(t, ok)
	require.NotNil(t, cardio.Weighted["tcc"])
	assert.Equal(t, 310000.0, cardio.Weighted["tcc"].P50)
	assert.Nil(t, cardio.Weighted["wrvu"], "missing data round-trips as null")
}
