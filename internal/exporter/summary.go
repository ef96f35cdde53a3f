// Package exporter writes computed summary records to CSV and JSON for the
// presentation layer. One output row per group, variable, and summary type;
// missing aggregates export with empty statistic cells so consumers can tell
// "no data" from zero.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"surveybench/pkg/contracts/domain"
)

var csvHeader = []string{
	"group", "variable", "summary_type",
	"n_orgs", "n_incumbents", "p25", "p50", "p75", "p90",
}

// Writer exports grouped summaries.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a summary writer. A nil logger uses slog.Default().
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteCSV writes one row per group/variable/summary-type, sorted for
// deterministic output. A UTF-8 BOM keeps the file Excel-friendly.
func (w *Writer) WriteCSV(path string, grouped domain.GroupedSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	records := 0
	for _, group := range sortedKeys(grouped) {
		summary := grouped[group]
		for _, variable := range sortedVariables(summary) {
			for _, st := range []struct {
				name      string
				aggregate *domain.VariableAggregate
			}{
				{"simple", summary.Simple[variable]},
				{"weighted", summary.Weighted[variable]},
			} {
				if err := writer.Write(summaryRecord(group, variable, st.name, st.aggregate)); err != nil {
					return fmt.Errorf("write record for %s/%s: %w", group, variable, err)
				}
				records++
			}
		}
	}

	w.logger.Info("wrote summary CSV",
		slog.String("path", path),
		slog.Int("records", records))

	return writer.Error()
}

// WriteJSON writes the grouped summaries with generation metadata.
func (w *Writer) WriteJSON(path string, grouped domain.GroupedSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	payload := map[string]any{
		"groups":       grouped,
		"group_count":  len(grouped),
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "summary_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode summaries: %w", err)
	}

	w.logger.Info("wrote summary JSON",
		slog.String("path", path),
		slog.Int("groups", len(grouped)))

	return nil
}

func summaryRecord(group, variable, summaryType string, agg *domain.VariableAggregate) []string {
	record := []string{group, variable, summaryType, "", "", "", "", "", ""}
	if agg == nil {
		return record
	}
	record[3] = formatFloat(agg.NOrgs)
	record[4] = formatFloat(agg.NIncumbents)
	record[5] = formatFloat(agg.P25)
	record[6] = formatFloat(agg.P50)
	record[7] = formatFloat(agg.P75)
	record[8] = formatFloat(agg.P90)
	return record
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedKeys(grouped domain.GroupedSummary) []string {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedVariables(summary domain.Summary) []string {
	vars := make([]string, 0, len(summary.Simple))
	for v := range summary.Simple {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}
