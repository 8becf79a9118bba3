// Package main provides the verify command-line tool that checks whether the
// cached panel still matches its source files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"wbpanel/internal/cache"
	"wbpanel/internal/config"
	"wbpanel/pkg/metadata"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
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

	store, err := cache.NewStore(cfg.Cache.Format, cfg.Cache.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	artifact, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	meta := artifact.Metadata
	if meta != nil {
		fmt.Printf("Artifact: %s (built %s, hash %s)\n", store.Path(), meta.BuiltAt.Format("2006-01-02 15:04:05"), meta.Hash)
	}

	if _, err := metadata.Verify(meta, cfg.Inputs()); err != nil {
		if errors.Is(err, metadata.ErrHashMismatch) {
			fmt.Println("Stale: sources changed since the last build, rerun the normalizer")
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Up to date")
}
