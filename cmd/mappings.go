// =============================================================================
// CSV to OFX/QIF Converter - Mappings Command
// =============================================================================
//
// The 'mappings' command lists every registered mapping: the built-ins plus
// any YAML mappings found in the configured mappings directory.
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2ofx/internal/config"
	"github.com/ginjaninja78/csv2ofx/internal/mapping"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "List available institution mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return &configError{err: err}
		}

		registry := mapping.NewRegistry()
		if err := registry.LoadDir(cfg.MappingsDir); err != nil {
			return &configError{err: err}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCURRENCY\tSPLIT\tDESCRIPTION")
		for _, name := range registry.Names() {
			spec, _ := registry.Get(name)
			currency := spec.Currency
			if currency == "" {
				currency = "USD"
			}
			split := ""
			if spec.IsSplit {
				split = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, currency, split, spec.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
}
