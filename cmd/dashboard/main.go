// Package main is the entry point of the indicator dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"wbpanel/cmd/dashboard/commands"
	"wbpanel/internal/cache"
	"wbpanel/internal/config"
	"wbpanel/internal/logger"
	"wbpanel/internal/models"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := config.LoadDotEnv(".env"); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(func(path string) (*config.Config, commands.PanelSource, error) {
		return open(path, stderr)
	})
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())

		if errors.Is(err, models.ErrCacheArtifactMissing) {
			return 2
		}

		return 1
	}

	return 0
}

// open loads the configuration and a session over its cache artifact.
func open(path string, stderr io.Writer) (*config.Config, commands.PanelSource, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	store, err := cache.NewStore(cfg.Cache.Format, cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(stderr, cfg.Logging.Level, cfg.Logging.Format)

	var opts []cache.SessionOption
	if cfg.Cache.VerifySources {
		opts = append(opts, cache.WithSourceCheck(cfg.Inputs()))
	}

	return cfg, cache.NewSession(store, log, opts...), nil
}
