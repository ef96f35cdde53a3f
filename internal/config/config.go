// Package config loads engine configuration from environment variables and
// an optional YAML file. Environment values take precedence over file
// values. The variable alias table and category label translations are the
// engine's only behavioral configuration surface; everything else is
// operational (logging, output, cache).
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces every environment variable, e.g. SURVEYBENCH_LOGGING_LEVEL.
const envPrefix = "SURVEYBENCH"

// Config is the complete application configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Variables VariablesConfig `yaml:"variables" envconfig:"VARIABLES"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/surveybench.log"`
}

// OutputConfig controls where and how summaries are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" envconfig:"DIR" default:"out"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"csv" validate:"oneof=csv json both"`
}

// VariablesConfig extends the built-in variable canonicalization tables and
// data-category display labels for custom survey sources.
type VariablesConfig struct {
	// Aliases maps variant variable spellings to canonical variable names.
	Aliases map[string]string `yaml:"aliases" envconfig:"ALIASES"`
	// LegacyPrefixes maps canonical variable names to legacy flat-field prefixes.
	LegacyPrefixes map[string]string `yaml:"legacy_prefixes" envconfig:"LEGACY_PREFIXES"`
	// CategoryLabels maps display labels to data-category enum values
	// (COMPENSATION, CALL_PAY, MOONLIGHTING, CUSTOM).
	CategoryLabels map[string]string `yaml:"category_labels" envconfig:"CATEGORY_LABELS"`
}

// Load reads configuration from the environment and, when configFile names
// an existing file, merges YAML values underneath the environment ones.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configFile, err)
			}
			cfg = merge(*fileCfg, cfg)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env config on top of file config; env wins where set, maps
// are merged with env entries taking precedence.
func merge(fileCfg, envCfg Config) Config {
	out := envCfg

	if isDefault(out.Logging.Level, "info") && fileCfg.Logging.Level != "" {
		out.Logging.Level = fileCfg.Logging.Level
	}
	if isDefault(out.Logging.Output, "console") && fileCfg.Logging.Output != "" {
		out.Logging.Output = fileCfg.Logging.Output
	}
	if isDefault(out.Logging.FilePath, "logs/surveybench.log") && fileCfg.Logging.FilePath != "" {
		out.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if isDefault(out.Output.Dir, "out") && fileCfg.Output.Dir != "" {
		out.Output.Dir = fileCfg.Output.Dir
	}
	if isDefault(out.Output.Format, "csv") && fileCfg.Output.Format != "" {
		out.Output.Format = fileCfg.Output.Format
	}

	out.Variables.Aliases = mergeMaps(fileCfg.Variables.Aliases, envCfg.Variables.Aliases)
	out.Variables.LegacyPrefixes = mergeMaps(fileCfg.Variables.LegacyPrefixes, envCfg.Variables.LegacyPrefixes)
	out.Variables.CategoryLabels = mergeMaps(fileCfg.Variables.CategoryLabels, envCfg.Variables.CategoryLabels)

	return out
}

func isDefault(value, def string) bool {
	return value == "" || value == def
}

func mergeMaps(base, overlay map[string]string) map[string]string {
	if len(base) == 0 {
		return overlay
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
