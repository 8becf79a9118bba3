// Package config provides configuration management for the normalizer and dashboard.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wbpanel/pkg/metadata"
)

// Configuration validation errors.
var (
	ErrNoSources               = errors.New("at least one source is required")
	ErrSourceMissingIndicator  = errors.New("indicator is required")
	ErrSourceMissingFile       = errors.New("file is required")
	ErrDuplicateIndicator      = errors.New("indicator listed twice")
	ErrInvalidSkipRows         = errors.New("normalizer.skip_rows must be non-negative")
	ErrMissingCachePath        = errors.New("cache.path is required")
	ErrInvalidCacheFormat      = errors.New("cache.format must be 'json' or 'sqlite'")
	ErrInvalidExportFormat     = errors.New("export.format must be one of: csv, md, xlsx")
	ErrMissingExportDir        = errors.New("export.dir is required")
	ErrInvalidLogLevel         = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat        = errors.New("logging.format must be 'text' or 'json'")
	ErrMissingTradeIndicators  = errors.New("dashboard.trade.exports and dashboard.trade.imports are required")
	ErrMissingGrowthIndicator  = errors.New("dashboard.growth_indicator is required")
	ErrInvalidCompareSelection = errors.New("dashboard.compare_countries must not contain empty names")
)

// Environment variable overrides.
const (
	EnvDataDir     = "WBPANEL_DATA_DIR"
	EnvCachePath   = "WBPANEL_CACHE_PATH"
	EnvCacheFormat = "WBPANEL_CACHE_FORMAT"
	EnvLogLevel    = "WBPANEL_LOG_LEVEL"
	EnvExportDir   = "WBPANEL_EXPORT_DIR"
	EnvSkipRows    = "WBPANEL_SKIP_ROWS"
)

// Config represents the complete configuration.
type Config struct {
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Cache      CacheConfig      `yaml:"cache"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// NormalizerConfig lists the source files.
type NormalizerConfig struct {
	DataDir  string         `yaml:"data_dir"`
	Sources  []SourceConfig `yaml:"sources"`
	SkipRows int            `yaml:"skip_rows"`
}

// SourceConfig binds an indicator to its World Bank export.
type SourceConfig struct {
	Indicator string `yaml:"indicator"`
	File      string `yaml:"file"`
}

// CacheConfig defines where the panel artifact lives.
type CacheConfig struct {
	Path          string `yaml:"path"`
	Format        string `yaml:"format"`
	VerifySources bool   `yaml:"verify_sources"`
}

// DashboardConfig holds selector defaults and indicator roles.
type DashboardConfig struct {
	DefaultCountry   string      `yaml:"default_country"`
	CompareCountries []string    `yaml:"compare_countries"`
	GrowthIndicator  string      `yaml:"growth_indicator"`
	Trade            TradeConfig `yaml:"trade"`
	Sectors          []string    `yaml:"sectors"`
}

// TradeConfig names the indicators of the trade balance.
type TradeConfig struct {
	Exports string `yaml:"exports"`
	Imports string `yaml:"imports"`
}

// ExportConfig defines export behavior.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration for the six standard World Bank exports.
func Default() *Config {
	return &Config{
		Normalizer: NormalizerConfig{
			DataDir:  "data",
			SkipRows: 4,
			Sources: []SourceConfig{
				{Indicator: "GDP Growth (%)", File: "gdp_growth.csv"},
				{Indicator: "Exports (USD)", File: "exports.csv"},
				{Indicator: "Imports (USD)", File: "imports.csv"},
				{Indicator: "Agriculture (%)", File: "agriculture.csv"},
				{Indicator: "Industry (%)", File: "industry.csv"},
				{Indicator: "Services (%)", File: "services.csv"},
			},
		},
		Cache: CacheConfig{
			Path:   "data/cleaned_panel.json",
			Format: "json",
		},
		Dashboard: DashboardConfig{
			DefaultCountry:   "India",
			CompareCountries: []string{"United States", "China"},
			GrowthIndicator:  "GDP Growth (%)",
			Trade:            TradeConfig{Exports: "Exports (USD)", Imports: "Imports (USD)"},
			Sectors:          []string{"Agriculture (%)", "Industry (%)", "Services (%)"},
		},
		Export: ExportConfig{
			Dir:    "exports",
			Format: "csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
// A missing file is not an error; the defaults and environment apply.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding existing ones. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Normalizer.DataDir = v
	}

	if v := os.Getenv(EnvCachePath); v != "" {
		c.Cache.Path = v
	}

	if v := os.Getenv(EnvCacheFormat); v != "" {
		c.Cache.Format = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(EnvExportDir); v != "" {
		c.Export.Dir = v
	}

	if v := os.Getenv(EnvSkipRows); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSkipRows, err)
		}

		c.Normalizer.SkipRows = n
	}

	return nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Normalizer.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Normalizer.Sources))

	for i, src := range c.Normalizer.Sources {
		if src.Indicator == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingIndicator, i)
		}

		if src.File == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingFile, i)
		}

		if seen[src.Indicator] {
			return fmt.Errorf("%w: %q", ErrDuplicateIndicator, src.Indicator)
		}

		seen[src.Indicator] = true
	}

	if c.Normalizer.SkipRows < 0 {
		return ErrInvalidSkipRows
	}

	if c.Cache.Path == "" {
		return ErrMissingCachePath
	}

	if c.Cache.Format != "json" && c.Cache.Format != "sqlite" {
		return ErrInvalidCacheFormat
	}

	validExport := map[string]bool{"csv": true, "md": true, "xlsx": true}
	if !validExport[c.Export.Format] {
		return ErrInvalidExportFormat
	}

	if c.Export.Dir == "" {
		return ErrMissingExportDir
	}

	if c.Dashboard.GrowthIndicator == "" {
		return ErrMissingGrowthIndicator
	}

	if c.Dashboard.Trade.Exports == "" || c.Dashboard.Trade.Imports == "" {
		return ErrMissingTradeIndicators
	}

	for _, country := range c.Dashboard.CompareCountries {
		if country == "" {
			return ErrInvalidCompareSelection
		}
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// SourcePath resolves a source file against the data directory.
func (c *Config) SourcePath(src SourceConfig) string {
	if filepath.IsAbs(src.File) || c.Normalizer.DataDir == "" {
		return src.File
	}

	return filepath.Join(c.Normalizer.DataDir, src.File)
}

// Inputs returns the resolved source files in configured order.
func (c *Config) Inputs() []metadata.Input {
	out := make([]metadata.Input, 0, len(c.Normalizer.Sources))
	for _, src := range c.Normalizer.Sources {
		out = append(out, metadata.Input{Indicator: src.Indicator, Path: c.SourcePath(src)})
	}

	return out
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, DataDir: %s, Cache: %s (%s)}",
		len(c.Normalizer.Sources),
		c.Normalizer.DataDir,
		c.Cache.Path,
		c.Cache.Format,
	)
}
