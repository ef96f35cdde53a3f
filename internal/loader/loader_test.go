package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"surveybench/pkg/contracts/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	csvContent := `Standardized Name,Survey Specialty,Survey Source,Geographic Region,Provider Type,Survey Year,tcc_p50,tcc_n_incumbents,wrvu_p50
Cardiology,Cardiology - General,MGMA,National,Staff Physician,2024,"300,000",20,5000
Dermatology,Dermatology,ECG,,,2023,410000,8,
`
	path := writeFile(t, "rows.csv", csvContent)

	rows, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "Cardiology", first.StandardizedName)
	assert.Equal(t, "Cardiology - General", first.SurveySpecialty)
	assert.Equal(t, "MGMA", first.SurveySource)
	assert.Equal(t, "National", first.GeographicRegion)
	assert.Equal(t, "Staff Physician", first.ProviderType)
	assert.Equal(t, "2024", first.SurveyYear)
	assert.Equal(t, 300000.0, first.LegacyFields["tcc_p50"])
	assert.Equal(t, 20.0, first.LegacyFields["tcc_n_incumbents"])
	assert.Equal(t, 5000.0, first.LegacyFields["wrvu_p50"])

	second := rows[1]
	assert.Empty(t, second.GeographicRegion)
	assert.NotContains(t, second.LegacyFields, "wrvu_p50")
}

func TestLoadJSON(t *testing.T) {
	jsonContent := `[
	  {
	    "standardized_name": "Cardiology",
	    "survey_source": "SullivanCotter",
	    "survey_year": "2024",
	    "data_category": "COMPENSATION",
	    "variables": {
	      "tcc": {"n_orgs": 5, "n_incumbents": 20, "p50": 330000}
	    }
	  }
	]`
	path := writeFile(t, "rows.json", jsonContent)

	rows, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, domain.CategoryCompensation, rows[0].DataCategory)
	assert.Equal(t, 330000.0, rows[0].Variables["tcc"].P50)
}

func TestLoadJSONDropsContractViolations(t *testing.T) {
	jsonContent := `[
	  {"standardized_name": "Good", "variables": {"tcc": {"n_orgs": 1, "p50": 100}}},
	  {"standardized_name": "Bad", "variables": {"tcc": {"n_orgs": -4, "p50": 100}}}
	]`
	path := writeFile(t, "rows.json", jsonContent)

	rows, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Good", rows[0].StandardizedName)
}

func TestLoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Standardized Name", "Survey Source", "Survey Year", "tcc_p50"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Cardiology", "MGMA", "2024", 300000}))

	path := filepath.Join(t.TempDir(), "rows.xlsx")
	require.NoError(t, f.SaveAs(path))

	rows, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cardiology", rows[0].StandardizedName)
	assert.Equal(t, 300000.0, rows[0].LegacyFields["tcc_p50"])
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "rows.parquet", "not really")
	_, err := New(nil).Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadAllConcatenatesInOrder(t *testing.T) {
	a := writeFile(t, "a.csv", "Standardized Name\nCardiology\n")
	b := writeFile(t, "b.csv", "Standardized Name\nDermatology\n")

	rows, err := New(nil).LoadAll(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cardiology", rows[0].StandardizedName)
	assert.Equal(t, "Dermatology", rows[1].StandardizedName)
}

func TestLoadAllPropagatesErrors(t *testing.T) {
	a := writeFile(t, "a.csv", "Standardized Name\nCardiology\n")
	_, err := New(nil).LoadAll(context.Background(), []string{a, filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}
