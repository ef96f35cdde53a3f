// benchstats loads normalized compensation-survey rows, applies dimension
// filters, and writes simple and incumbent-weighted percentile summaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"surveybench/internal/cache"
	"surveybench/internal/config"
	"surveybench/internal/exporter"
	"surveybench/internal/infrastructure"
	"surveybench/internal/loader"
	"surveybench/internal/survey"
	"surveybench/pkg/contracts"
	"surveybench/pkg/contracts/domain"
)

func main() {
	input := flag.String("input", "", "comma-separated input files (json, csv, or xlsx)")
	configFile := flag.String("config", "surveybench.yaml", "optional config file")
	outDir := flag.String("out", "", "output directory (defaults to config output dir)")
	format := flag.String("format", "", "output format: csv, json, or both (defaults to config)")
	variables := flag.String("variables", "tcc", "comma-separated variable names to summarize")
	grouped := flag.Bool("grouped", false, "group summaries by specialty instead of one flat summary")

	specialty := flag.String("specialty", "", "specialty filter")
	source := flag.String("source", "", "survey source filter")
	region := flag.String("region", "", "geographic region filter")
	providerType := flag.String("provider-type", "", "provider type filter")
	year := flag.String("year", "", "survey year filter")
	category := flag.String("category", "", "data category filter (display label or enum value)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: benchstats -input rows.csv[,more...] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = cfg.Output.Dir
	}
	if *format == "" {
		*format = cfg.Output.Format
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())
	logger.InfoContext(ctx, "starting benchmark run",
		slog.String("input", *input),
		slog.String("variables", *variables))

	rows, err := loader.New(logger).LoadAll(ctx, splitList(*input))
	if err != nil {
		logger.ErrorContext(ctx, "failed to load rows", "error", err)
		os.Exit(1)
	}

	engine, err := buildEngine(rows, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build engine", "error", err)
		os.Exit(1)
	}

	criteria := domain.FilterCriteria{
		Specialty:        *specialty,
		SurveySource:     *source,
		GeographicRegion: *region,
		ProviderType:     *providerType,
		Year:             *year,
		DataCategory:     *category,
	}
	selected := splitList(*variables)

	var results domain.GroupedSummary
	if *grouped {
		results = engine.SummarizeBySpecialty(ctx, criteria, selected)
	} else {
		results = domain.GroupedSummary{"All": engine.Summarize(ctx, criteria, selected)}
	}

	matched := engine.Filter(ctx, criteria)
	logger.InfoContext(ctx, "computed summaries",
		slog.Int("matched_rows", len(matched)),
		slog.Int("groups", len(results)))

	if err := writeOutputs(*outDir, *format, results, logger); err != nil {
		logger.ErrorContext(ctx, "failed to write outputs", "error", err)
		os.Exit(1)
	}
}

func buildEngine(rows []domain.SurveyRow, cfg *config.Config, logger *slog.Logger) (*survey.Engine, error) {
	table := survey.DefaultVariableTable()
	for variant, canonical := range cfg.Variables.Aliases {
		table.AddAlias(variant, canonical)
	}
	for canonical, prefix := range cfg.Variables.LegacyPrefixes {
		table.AddLegacyPrefix(canonical, prefix)
	}

	labels := make(map[string]domain.DataCategory, len(cfg.Variables.CategoryLabels))
	for label, value := range cfg.Variables.CategoryLabels {
		category, ok := parseCategoryValue(value)
		if !ok {
			logger.Warn("ignoring unknown data category in config",
				slog.String("label", label),
				slog.String("value", value))
			continue
		}
		labels[label] = category
	}

	return survey.NewEngine(rows,
		survey.WithLogger(logger),
		survey.WithVariableTable(table),
		survey.WithCategoryLabels(labels),
		survey.WithResultCache(cache.New(prometheus.DefaultRegisterer, logger)),
		survey.WithMetrics(prometheus.DefaultRegisterer),
	)
}

func parseCategoryValue(value string) (domain.DataCategory, bool) {
	switch domain.DataCategory(strings.ToUpper(strings.TrimSpace(value))) {
	case domain.CategoryCompensation:
		return domain.CategoryCompensation, true
	case domain.CategoryCallPay:
		return domain.CategoryCallPay, true
	case domain.CategoryMoonlighting:
		return domain.CategoryMoonlighting, true
	case domain.CategoryCustom:
		return domain.CategoryCustom, true
	default:
		return "", false
	}
}

func writeOutputs(dir, format string, results domain.GroupedSummary, logger *slog.Logger) error {
	writer := exporter.NewWriter(logger)

	if format == "csv" || format == "both" {
		if err := writer.WriteCSV(filepath.Join(dir, "summary.csv"), results); err != nil {
			return err
		}
	}
	if format == "json" || format == "both" {
		if err := writer.WriteJSON(filepath.Join(dir, "summary.json"), results); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
