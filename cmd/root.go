// =============================================================================
// CSV to OFX/QIF Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   csv2ofx
//   ├── convert   (run a conversion)
//   ├── mappings  (list registered mappings)
//   └── version   (display version information)
//
// Exit codes distinguish failure classes so batch callers can react:
//   1 - I/O or unexpected errors
//   2 - configuration/mapping errors
//   3 - data errors (bad row, unbalanced split)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2ofx/internal/converter"
	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// cfgFile holds the path to the main configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose raises the log level to debug.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "csv2ofx",
	Short: "Convert institution CSV/XLSX transaction exports to OFX or QIF",
	Long: `csv2ofx converts tabular transaction exports from banks and other
institutions into OFX or QIF documents suitable for import into accounting
software such as GnuCash.

Each institution's CSV dialect is described by a declarative mapping: which
column holds the date and in what format, how the signed amount is expressed,
where the payee and memo live. Mappings ship built in or are loaded from YAML
files in the mappings directory.

Example Usage:
  csv2ofx convert --mapping asl --input export.csv --output export.ofx
  csv2ofx convert --format qif            # batch mode over the input directory
  csv2ofx mappings                        # list available mappings`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command and maps errors to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// newLogger builds the console logger for a run.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

// configError marks failures in the configuration phase (bad config file,
// unknown mapping, unresolvable mapping spec).
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var (
		cfgErr     *configError
		missingErr *mapping.MissingRequiredFieldError
		fieldErr   *converter.FieldExtractionError
		splitErr   *converter.UnbalancedSplitError
		incompErr  *converter.IncompleteSplitError
		serErr     *types.SerializationError
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &missingErr):
		return 2
	case errors.As(err, &fieldErr), errors.As(err, &splitErr),
		errors.As(err, &incompErr), errors.As(err, &serErr):
		return 3
	default:
		return 1
	}
}
