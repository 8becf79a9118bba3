// Package commands implements the CLI commands of the indicator dashboard.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wbpanel/internal/config"
	"wbpanel/internal/export"
	"wbpanel/internal/models"
	"wbpanel/internal/query"
	"wbpanel/pkg/metadata"
)

// PanelSource hands out the loaded panel.
type PanelSource interface {
	Panel() (*models.Panel, error)
}

// BuildInfoSource is a PanelSource that also knows how its panel was built.
type BuildInfoSource interface {
	PanelSource
	Metadata() (*metadata.Metadata, error)
}

// Loader resolves the configuration file and opens the panel behind it.
type Loader func(configPath string) (*config.Config, PanelSource, error)

// CLI represents the command line interface of the dashboard.
type CLI struct {
	load    Loader
	rootCmd *cobra.Command

	configPath string
	from, to   int

	cfg    *config.Config
	source PanelSource
}

// New creates a new CLI instance over load.
func New(load Loader) *CLI {
	rootCmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Explore the World Bank indicator panel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		load:    load,
		rootCmd: rootCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "config.yaml", "Path to the configuration file")
	pf.IntVar(&c.from, "from", 0, "First year of the analysis window (default: first year of the panel)")
	pf.IntVar(&c.to, "to", 0, "Last year of the analysis window (default: last year of the panel)")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		cfg, src, err := c.load(c.configPath)
		if err != nil {
			return err
		}

		c.cfg, c.source = cfg, src

		return nil
	}

	rootCmd.AddCommand(c.newCountriesCmd())
	rootCmd.AddCommand(c.newIndicatorsCmd())
	rootCmd.AddCommand(c.newYearsCmd())
	rootCmd.AddCommand(c.newOverviewCmd())
	rootCmd.AddCommand(c.newPrintCmds()...)
	rootCmd.AddCommand(c.newExportCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// panel returns the full panel narrowed to the --from/--to window. An unset
// bound falls back to the panel's own bound.
func (c *CLI) panel() (*models.Panel, error) {
	p, err := c.source.Panel()
	if err != nil {
		return nil, err
	}

	if c.from == 0 && c.to == 0 {
		return p, nil
	}

	lo, hi := query.YearRange(p)
	if c.from != 0 {
		lo = c.from
	}

	if c.to != 0 {
		hi = c.to
	}

	return query.FilterByYears(p, lo, hi)
}

func (c *CLI) names() query.Names {
	d := c.cfg.Dashboard

	return query.Names{
		GDPGrowth: d.GrowthIndicator,
		Exports:   d.Trade.Exports,
		Imports:   d.Trade.Imports,
		Sectors:   d.Sectors,
	}
}

// countryArg returns the first positional argument or the configured default country.
func (c *CLI) countryArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return c.cfg.Dashboard.DefaultCountry
}

// lastYear returns year, or the last year of p when year is unset.
func lastYear(p *models.Panel, year int) (int, error) {
	if year != 0 {
		return year, nil
	}

	if len(p.Years()) == 0 {
		return 0, fmt.Errorf("%w: no years in the selected window", models.ErrUnknownYear)
	}

	_, last := p.YearRange()

	return last, nil
}

func render(w io.Writer, t *export.Table) error {
	return export.WriteMarkdown(w, t)
}
