package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wbpanel/internal/export"
)

func (c *CLI) newExportCmd() *cobra.Command {
	var format, dir string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a view to a csv, md or xlsx file",
	}

	exportCmd.PersistentFlags().StringVar(&format, "format", "", "File format: csv, md or xlsx (default: export.format)")
	exportCmd.PersistentFlags().StringVar(&dir, "out", "", "Output directory (default: export.dir)")

	save := func(cmd *cobra.Command, t *export.Table) error {
		f, d := format, dir
		if f == "" {
			f = c.cfg.Export.Format
		}

		if d == "" {
			d = c.cfg.Export.Dir
		}

		path, err := export.Save(d, t, f)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	}

	for _, v := range c.views() {
		exportCmd.AddCommand(newViewCmd(v, save))
	}

	return exportCmd
}
