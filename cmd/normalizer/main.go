// Package main provides the normalizer command-line tool that turns the World Bank
// exports into the cached indicator panel.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"wbpanel/internal/cache"
	"wbpanel/internal/config"
	"wbpanel/internal/logger"
	"wbpanel/internal/normalizer"
	"wbpanel/pkg/metadata"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	outputPath := flag.String("output", "", "Path of the cache artifact (overrides cache.path)")
	format := flag.String("format", "", "Artifact format: json or sqlite (overrides cache.format)")
	dataDir := flag.String("data-dir", "", "Directory holding the source CSV files (overrides normalizer.data_dir)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outputPath != "" {
		cfg.Cache.Path = *outputPath
	}

	if *format != "" {
		cfg.Cache.Format = *format
	}

	if *dataDir != "" {
		cfg.Normalizer.DataDir = *dataDir
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, log); err != nil {
		log.Error("normalization failed", "error", err)
		os.Exit(1)
	}
}

// run builds the panel and writes it. Nothing is written unless every source
// was read and validated.
func run(cfg *config.Config, log *logger.Logger) error {
	start := time.Now()

	store, err := cache.NewStore(cfg.Cache.Format, cfg.Cache.Path)
	if err != nil {
		return err
	}

	inputs := cfg.Inputs()

	sources := make([]normalizer.Source, 0, len(inputs))
	for _, in := range inputs {
		sources = append(sources, normalizer.Source{Indicator: in.Indicator, Path: in.Path})
	}

	log.Info("normalizing sources", "count", len(sources), "data_dir", cfg.Normalizer.DataDir)

	panel, err := normalizer.NewProcessor(cfg.Normalizer.SkipRows, log).Build(sources)
	if err != nil {
		return err
	}

	meta, err := metadata.Fingerprint(inputs)
	if err != nil {
		return err
	}

	if err := store.Save(panel, meta); err != nil {
		return err
	}

	first, last := panel.YearRange()
	log.Info("panel written",
		"path", store.Path(),
		"format", cfg.Cache.Format,
		"series", panel.Len(),
		"countries", len(panel.Countries()),
		"years", fmt.Sprintf("%d-%d", first, last),
		"hash", meta.Hash,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}
