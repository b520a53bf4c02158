// =============================================================================
// CSV to OFX/QIF Converter - Conversion Pipeline
// =============================================================================
//
// This module orchestrates a conversion run:
//
//   raw rows -> field extractor -> normalizer -> grouper -> serializer
//
// The pipeline is single-threaded and single-pass. Extraction and
// normalization are per-row; grouping is a full barrier (all transactions
// must be normalized before account grouping begins); serialization streams
// one account group at a time. Every error is fatal to the run — partial
// OFX/QIF output is never emitted, because a truncated financial statement is
// worse than none.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/ofxwriter"
	"github.com/ginjaninja78/csv2ofx/internal/qifwriter"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Format selects the output serialization.
type Format string

const (
	FormatOFX Format = "ofx"
	FormatQIF Format = "qif"
)

// ParseFormat interprets a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatOFX:
		return FormatOFX, nil
	case FormatQIF:
		return FormatQIF, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected ofx or qif)", s)
	}
}

// RowSource is the contract between the pipeline and its input collaborators
// (CSV and XLSX parsers). The header row, when present, is consumed by the
// source and never reaches the pipeline.
type RowSource interface {
	Next() bool
	Row() types.RawRow
	RowNumber() int
	Err() error
	Close() error
}

// Logger is the logging interface used by the pipeline. The cmd layer
// supplies a zerolog-backed implementation; tests may use NopLogger.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ProcessingStats summarizes one conversion run.
type ProcessingStats struct {
	RowsRead     int
	Transactions int
	Accounts     int
}

// Converter runs the full pipeline for one mapping and output format.
type Converter struct {
	mapping *mapping.ResolvedMapping
	format  Format
	log     Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger replaces the default no-op logger.
func WithLogger(log Logger) Option {
	return func(c *Converter) { c.log = log }
}

// New creates a converter for a resolved mapping and output format.
func New(m *mapping.ResolvedMapping, format Format, opts ...Option) *Converter {
	c := &Converter{
		mapping: m,
		format:  format,
		log:     NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert drains src through the pipeline and writes the serialized document
// to w. Nothing is written to w until extraction, normalization, and grouping
// have all completed without error.
func (c *Converter) Convert(src RowSource, w io.Writer) (ProcessingStats, error) {
	var stats ProcessingStats

	extractor := NewExtractor(c.mapping)
	normalizer := NewNormalizer(c.mapping)

	var txns []types.Transaction
	for src.Next() {
		stats.RowsRead++

		fs, err := extractor.Extract(src.Row(), src.RowNumber())
		if err != nil {
			return stats, err
		}

		completed, err := normalizer.Add(fs)
		if err != nil {
			return stats, err
		}
		txns = append(txns, completed...)
	}
	if err := src.Err(); err != nil {
		return stats, fmt.Errorf("input error: %w", err)
	}

	trailing, err := normalizer.Flush()
	if err != nil {
		return stats, err
	}
	txns = append(txns, trailing...)

	c.log.Debug("normalized %d transactions from %d rows", len(txns), stats.RowsRead)

	// OFX has no split representation, so counter-legs are mirrored into
	// their own accounts before grouping. QIF keeps them as S/$ split lines.
	if c.format == FormatOFX {
		txns = ExpandSplits(txns)
	}
	stats.Transactions = len(txns)

	groups := Group(txns, c.mapping)
	stats.Accounts = len(groups.Accounts())

	switch c.format {
	case FormatOFX:
		err = ofxwriter.Write(groups, c.mapping, w)
	case FormatQIF:
		err = qifwriter.Write(groups, c.mapping, w)
	default:
		err = fmt.Errorf("unknown output format %q", c.format)
	}
	if err != nil {
		return stats, err
	}

	c.log.Info("converted %d rows into %d transactions across %d account(s)",
		stats.RowsRead, stats.Transactions, stats.Accounts)
	return stats, nil
}

// =============================================================================
// LOGGERS
// =============================================================================

type nopLogger struct{}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the pipeline Logger interface.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

func (z *zerologLogger) Debug(msg string, args ...interface{}) { z.l.Debug().Msgf(msg, args...) }
func (z *zerologLogger) Info(msg string, args ...interface{})  { z.l.Info().Msgf(msg, args...) }
func (z *zerologLogger) Warn(msg string, args ...interface{})  { z.l.Warn().Msgf(msg, args...) }
func (z *zerologLogger) Error(msg string, args ...interface{}) { z.l.Error().Msgf(msg, args...) }
