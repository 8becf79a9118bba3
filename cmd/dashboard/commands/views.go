package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"wbpanel/internal/export"
	"wbpanel/internal/formatter"
	"wbpanel/internal/models"
	"wbpanel/internal/query"
	"wbpanel/pkg/utils"
)

var strs = utils.NewStringHelper()

// builder produces the table of a view from its positional arguments.
type builder func(cmd *cobra.Command, args []string) (*export.Table, error)

// view is a table-producing command shared by the print and export paths.
type view struct {
	use   string
	short string
	args  cobra.PositionalArgs
	// bind registers the view's flags on cmd and returns its builder.
	bind func(cmd *cobra.Command) builder
	// exportOnly hides the view from the top-level commands.
	exportOnly bool
}

func (c *CLI) views() []view {
	return []view{
		{
			use:   "country [name]",
			short: "Show every indicator of one country",
			args:  cobra.MaximumNArgs(1),
			bind:  func(*cobra.Command) builder { return c.countryTable },
		},
		{
			use:   "compare [country]",
			short: "Compare one indicator for a country against others",
			args:  cobra.MaximumNArgs(1),
			bind:  c.bindCompare,
		},
		{
			use:        "all [indicator]",
			short:      "One indicator for every country, years as columns",
			args:       cobra.MaximumNArgs(1),
			bind:       func(*cobra.Command) builder { return c.allCountriesTable },
			exportOnly: true,
		},
		{
			use:   "map",
			short: "Cross-section of one indicator in one year",
			args:  cobra.NoArgs,
			bind:  c.bindMap,
		},
		{
			use:   "sectors [country]",
			short: "Sector shares of GDP for one country and year",
			args:  cobra.MaximumNArgs(1),
			bind:  c.bindSectors,
		},
		{
			use:   "trade [country]",
			short: "Trade balance (exports minus imports) of one country",
			args:  cobra.MaximumNArgs(1),
			bind:  func(*cobra.Command) builder { return c.tradeTable },
		},
	}
}

// newViewCmd turns v into a command that hands its table to sink.
func newViewCmd(v view, sink func(cmd *cobra.Command, t *export.Table) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   v.use,
		Short: v.short,
		Args:  v.args,
	}

	build := v.bind(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		t, err := build(cmd, args)
		if err != nil {
			return err
		}

		return sink(cmd, t)
	}

	return cmd
}

func (c *CLI) countryTable(_ *cobra.Command, args []string) (*export.Table, error) {
	p, err := c.panel()
	if err != nil {
		return nil, err
	}

	proj, err := query.ProjectCountry(p, c.countryArg(args))
	if err != nil {
		return nil, err
	}

	return export.CountryTable(proj), nil
}

func (c *CLI) bindCompare(cmd *cobra.Command) builder {
	var (
		indicator string
		countries []string
	)

	cmd.Flags().StringVar(&indicator, "indicator", "", "Indicator to compare (default: dashboard.growth_indicator)")
	cmd.Flags().StringSliceVar(&countries, "countries", nil, "Countries to compare against (default: dashboard.compare_countries)")

	return func(cmd *cobra.Command, args []string) (*export.Table, error) {
		p, err := c.panel()
		if err != nil {
			return nil, err
		}

		if indicator == "" {
			indicator = c.cfg.Dashboard.GrowthIndicator
		}

		others := countries
		if len(others) == 0 {
			others = c.cfg.Dashboard.CompareCountries
		}

		selection := compareSelection(c.countryArg(args), others)

		cmp, err := query.ProjectIndicatorAcrossCountries(p, indicator, selection)
		if err != nil {
			return nil, err
		}

		for _, country := range selection {
			if e, ok := cmp.Errors[country]; ok {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
			}
		}

		return export.ComparisonTable(cmp), nil
	}
}

// compareSelection puts the selected country first, followed by the others
// without it.
func compareSelection(selected string, others []string) []string {
	out := make([]string, 0, len(others)+1)
	out = append(out, selected)

	for _, o := range others {
		if o != selected {
			out = append(out, o)
		}
	}

	return out
}

func (c *CLI) allCountriesTable(_ *cobra.Command, args []string) (*export.Table, error) {
	p, err := c.panel()
	if err != nil {
		return nil, err
	}

	indicator := c.cfg.Dashboard.GrowthIndicator
	if len(args) > 0 {
		indicator = args[0]
	}

	cmp, err := query.AllCountries(p, indicator)
	if err != nil {
		return nil, err
	}

	return export.AllCountriesTable(cmp), nil
}

func (c *CLI) bindMap(cmd *cobra.Command) builder {
	var (
		indicator string
		year      int
	)

	cmd.Flags().StringVar(&indicator, "indicator", "", "Indicator to map (default: dashboard.growth_indicator)")
	cmd.Flags().IntVar(&year, "year", 0, "Year of the cross-section (default: last year of the window)")

	return func(_ *cobra.Command, _ []string) (*export.Table, error) {
		p, err := c.panel()
		if err != nil {
			return nil, err
		}

		if indicator == "" {
			indicator = c.cfg.Dashboard.GrowthIndicator
		}

		y, err := lastYear(p, year)
		if err != nil {
			return nil, err
		}

		cs, err := query.CrossSection(p, indicator, y)
		if err != nil {
			return nil, err
		}

		return export.CrossSectionTable(cs), nil
	}
}

func (c *CLI) bindSectors(cmd *cobra.Command) builder {
	var year int

	cmd.Flags().IntVar(&year, "year", 0, "Year of the breakdown (default: last year of the window)")

	return func(_ *cobra.Command, args []string) (*export.Table, error) {
		p, err := c.panel()
		if err != nil {
			return nil, err
		}

		y, err := lastYear(p, year)
		if err != nil {
			return nil, err
		}

		country := c.countryArg(args)

		shares, err := query.SectorShares(p, country, y, c.names())
		if err != nil {
			return nil, err
		}

		t := &export.Table{
			Stem:        strs.FileStem(fmt.Sprintf("%s %d sectors", country, y)),
			Title:       fmt.Sprintf("%s %d", country, y),
			LabelHeader: []string{"Sector"},
			ValueHeader: []string{"Share of GDP (%)"},
		}

		for _, s := range shares {
			t.Rows = append(t.Rows, export.Row{Labels: []string{s.Label}, Values: []models.Value{s.Value}})
		}

		return t, nil
	}
}

func (c *CLI) tradeTable(_ *cobra.Command, args []string) (*export.Table, error) {
	p, err := c.panel()
	if err != nil {
		return nil, err
	}

	country := c.countryArg(args)

	s, err := query.TradeBalance(p, country, c.names())
	if err != nil {
		return nil, err
	}

	return export.SeriesTable(country+" trade balance", "Trade Balance (USD)", s), nil
}

func (c *CLI) newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries in the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.source.Panel()
			if err != nil {
				return err
			}

			for _, country := range query.Countries(p) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), country)
			}

			return nil
		},
	}
}

func (c *CLI) newIndicatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "List the indicators in the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.source.Panel()
			if err != nil {
				return err
			}

			for _, ind := range query.Indicators(p) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), ind)
			}

			return nil
		},
	}
}

func (c *CLI) newYearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "Print the year range of the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.source.Panel()
			if err != nil {
				return err
			}

			first, last := query.YearRange(p)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d-%d\n", first, last)

			src, ok := c.source.(BuildInfoSource)
			if !ok {
				return nil
			}

			meta, err := src.Metadata()
			if err != nil {
				return err
			}

			if meta != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built %s from %d sources (hash %s)\n",
					meta.BuiltAt.Format("2006-01-02 15:04:05"), len(meta.Sources), meta.Hash)
			}

			return nil
		},
	}
}

func (c *CLI) newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview [country]",
		Short: "Headline metrics of one country",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.panel()
			if err != nil {
				return err
			}

			metrics, err := query.Overview(p, c.countryArg(args), c.names())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(metrics))
			for _, m := range metrics {
				v := "n/a"
				if m.Value.Valid {
					v = strconv.FormatFloat(m.Value.Float, 'f', 2, 64)
				}

				rows = append(rows, []string{m.Label, v, m.Unit})
			}

			align := []formatter.Align{formatter.AlignLeft, formatter.AlignRight, formatter.AlignLeft}
			_, err = io.WriteString(cmd.OutOrStdout(), formatter.FormatTable([]string{"Metric", "Value", "Unit"}, rows, align))

			return err
		},
	}
}

// newPrintCmds returns the top-level commands that print a view.
func (c *CLI) newPrintCmds() []*cobra.Command {
	var out []*cobra.Command

	for _, v := range c.views() {
		if v.exportOnly {
			continue
		}

		out = append(out, newViewCmd(v, func(cmd *cobra.Command, t *export.Table) error {
			return render(cmd.OutOrStdout(), t)
		}))
	}

	return out
}
