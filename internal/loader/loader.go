// Package loader reads already-normalized survey rows from disk so the
// engine can stay free of I/O. Supported formats: JSON (rows with dynamic
// variable bags), CSV and XLSX (tabular rows whose extra numeric columns are
// legacy flat fields). Raw provider files are someone else's problem; by the
// time data reaches this package the columns are canonical.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"surveybench/internal/normalize"
	"surveybench/pkg/contracts/domain"
)

// canonical column names recognized in tabular inputs.
const (
	colStandardizedName = "standardized_name"
	colSurveySpecialty  = "survey_specialty"
	colSurveySource     = "survey_source"
	colRegion           = "geographic_region"
	colProviderType     = "provider_type"
	colSurveyYear       = "survey_year"
	colDataCategory     = "data_category"
)

// Loader reads normalized survey rows and drops rows violating the shape
// contract (negative counts) with a warning instead of failing the load.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// New creates a loader. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		validate: validator.New(),
	}
}

// Load reads one input file, dispatching on extension.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.SurveyRow, error) {
	var (
		rows []domain.SurveyRow
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, err = l.loadJSON(path)
	case ".csv":
		rows, err = l.loadCSV(path)
	case ".xlsx":
		rows, err = l.loadWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	rows = l.validateRows(ctx, path, rows)

	l.logger.InfoContext(ctx, "loaded survey rows",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// LoadAll reads several input files concurrently and concatenates their rows
// in argument order.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]domain.SurveyRow, error) {
	results := make([][]domain.SurveyRow, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rows, err := l.Load(gctx, path)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.SurveyRow
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// validateRows drops rows violating the shape contract, keeping the load
// tolerant of per-row data-quality issues.
func (l *Loader) validateRows(ctx context.Context, path string, rows []domain.SurveyRow) []domain.SurveyRow {
	out := rows[:0]
	for i, row := range rows {
		if err := l.validate.Struct(row); err != nil {
			l.logger.WarnContext(ctx, "dropping row violating shape contract",
				slog.String("path", path),
				slog.Int("row", i),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, row)
	}
	return out
}

// rowFromRecord builds a survey row from a tabular record. Canonical columns
// fill the identifying fields; any other column parsing as a number becomes
// a legacy flat field keyed by its canonicalized header.
func rowFromRecord(header []string, record []string) domain.SurveyRow {
	var row domain.SurveyRow

	for i, name := range header {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		if value == "" {
			continue
		}

		switch name {
		case colStandardizedName:
			row.StandardizedName = value
		case colSurveySpecialty:
			row.SurveySpecialty = value
		case colSurveySource:
			row.SurveySource = value
		case colRegion:
			row.GeographicRegion = value
		case colProviderType:
			row.ProviderType = value
		case colSurveyYear:
			row.SurveyYear = value
		case colDataCategory:
			row.DataCategory = domain.DataCategory(strings.ToUpper(value))
		default:
			if f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64); err == nil {
				if row.LegacyFields == nil {
					row.LegacyFields = make(map[string]float64)
				}
				row.LegacyFields[name] = f
			}
		}
	}

	return row
}

// canonicalHeader folds a column header to its canonical column name.
func canonicalHeader(raw string) string {
	return strings.ReplaceAll(normalize.Normalize(raw), " ", "_")
}

func canonicalHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = canonicalHeader(h)
	}
	return out
}
