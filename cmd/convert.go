// =============================================================================
// CSV to OFX/QIF Converter - Convert Command
// =============================================================================
//
// The 'convert' command runs the conversion pipeline.
//
// Two modes:
//   - Single file:  --input is given. The mapping comes from --mapping, or
//     from the registry's file-pattern matching when omitted.
//   - Batch: no --input. Every *.csv / *.xlsx in the configured input
//     directory is converted using pattern-matched mappings, and both input
//     and output are archived on success.
//
// The serialized document is buffered and written only after the whole
// pipeline has succeeded, so a failed run never leaves a partial statement
// file behind.
//
// =============================================================================

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2ofx/internal/config"
	"github.com/ginjaninja78/csv2ofx/internal/converter"
	"github.com/ginjaninja78/csv2ofx/internal/csvparser"
	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/xlsxparser"
	"github.com/ginjaninja78/csv2ofx/pkg/fileutil"
)

var (
	convertInput   string
	convertOutput  string
	convertMapping string
	convertFormat  string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert statement exports to OFX or QIF",
	Long: `Convert one statement export, or every file in the input directory,
into an OFX or QIF document.

Examples:
  csv2ofx convert --mapping asl --input releve.csv --output releve.ofx
  csv2ofx convert --mapping gnucash --format qif --input export.csv
  csv2ofx convert                      # batch mode over the input directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Errors carry their own context; the exit code conveys the class.
		cmd.SilenceUsage = true
		return runConvert()
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "",
		"Input statement file (omit for batch mode)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"Output file (default: generated name in the output directory)")
	convertCmd.Flags().StringVarP(&convertMapping, "mapping", "m", "",
		"Mapping name (default: matched by file patterns)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "",
		"Output format: ofx or qif (default: from configuration)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &configError{err: err}
	}
	log := newLogger(cfg.LogLevel)

	registry := mapping.NewRegistry()
	if err := registry.LoadDir(cfg.MappingsDir); err != nil {
		return &configError{err: err}
	}

	formatName := cfg.DefaultFormat
	if convertFormat != "" {
		formatName = convertFormat
	}
	format, err := converter.ParseFormat(formatName)
	if err != nil {
		return &configError{err: err}
	}

	if convertInput != "" {
		return convertFile(convertInput, convertOutput, registry, format, cfg, log, nil)
	}
	return convertBatch(registry, format, cfg, log)
}

// convertFile converts one input file. manager is non-nil in batch mode and
// triggers archival on success.
func convertFile(inputPath, outputPath string, registry *mapping.Registry,
	format converter.Format, cfg *config.Config, log zerolog.Logger,
	manager *fileutil.Manager) error {

	spec, err := selectMapping(inputPath, registry)
	if err != nil {
		return err
	}

	resolved, err := mapping.Resolve(spec)
	if err != nil {
		return err
	}

	log.Info().
		Str("file", inputPath).
		Str("mapping", resolved.Name).
		Str("format", string(format)).
		Msg("converting")

	src, err := openSource(inputPath, resolved)
	if err != nil {
		return err
	}
	defer src.Close()

	conv := converter.New(resolved, format,
		converter.WithLogger(converter.NewZerologLogger(log)))

	var buf bytes.Buffer
	stats, err := conv.Convert(src, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	if outputPath == "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		name := fileutil.GenerateOutputFileName(cfg.OutputNameFormat, map[string]string{
			"mapping": resolved.Name,
			"format":  string(format),
		})
		outputPath = filepath.Join(cfg.OutputDir, name)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.Info().
		Str("output", outputPath).
		Int("rows", stats.RowsRead).
		Int("transactions", stats.Transactions).
		Int("accounts", stats.Accounts).
		Msg("conversion complete")

	if manager != nil {
		if _, err := manager.ArchiveOutputFile(outputPath); err != nil {
			return err
		}
		archived, err := manager.ArchiveInputFile(inputPath)
		if err != nil {
			return err
		}
		log.Debug().Str("archived", archived).Msg("input archived")
	}
	return nil
}

func convertBatch(registry *mapping.Registry, format converter.Format,
	cfg *config.Config, log zerolog.Logger) error {

	manager := fileutil.NewManager(cfg.InputDir, cfg.OutputDir,
		cfg.InputArchiveDir, cfg.OutputArchiveDir)
	if err := manager.EnsureDirectories(); err != nil {
		return &configError{err: err}
	}

	files, err := manager.DiscoverInputFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("dir", cfg.InputDir).Msg("no input files found")
		return nil
	}

	// Abort on the first failure: a batch that silently drops one statement
	// is as unsafe as a statement that drops one row.
	for _, file := range files {
		if err := convertFile(file, "", registry, format, cfg, log, manager); err != nil {
			return err
		}
	}
	log.Info().Int("files", len(files)).Msg("batch complete")
	return nil
}

// selectMapping picks the mapping for an input file: the --mapping flag when
// given, otherwise the registry's file-pattern match.
func selectMapping(inputPath string, registry *mapping.Registry) (*mapping.Spec, error) {
	if convertMapping != "" {
		spec, ok := registry.Get(convertMapping)
		if !ok {
			return nil, &configError{err: fmt.Errorf("unknown mapping %q (see `csv2ofx mappings`)", convertMapping)}
		}
		return spec, nil
	}

	spec := registry.Match(inputPath)
	if spec == nil {
		return nil, &configError{err: fmt.Errorf("no mapping matches %q; pass --mapping", filepath.Base(inputPath))}
	}
	return spec, nil
}

// openSource opens the row source appropriate for the file extension.
func openSource(path string, m *mapping.ResolvedMapping) (converter.RowSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		src, err := xlsxparser.New(file, m.HasHeader)
		file.Close()
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	src, err := csvparser.New(file, m.Delimiter, m.HasHeader)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &closingSource{Parser: src, file: file}, nil
}

// closingSource ties the lifetime of the underlying file to the parser.
type closingSource struct {
	*csvparser.Parser
	file *os.File
}

func (s *closingSource) Close() error {
	return s.file.Close()
}
