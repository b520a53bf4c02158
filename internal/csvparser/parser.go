// =============================================================================
// CSV to OFX/QIF Converter - CSV Row Source
// =============================================================================
//
// This module reads institution CSV exports row by row. It handles the
// dialect options a mapping can declare:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Optional header row
//   - Quoted fields with lazy quoting
//
// Rows are surfaced as maps of column header -> raw string value, so mapping
// accessors address fields by name. Files without a header row get synthetic
// Column_N names. Parsing is streaming: only the current row is held in
// memory.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Parser reads CSV rows one at a time.
//
// USAGE:
//   parser, err := csvparser.New(r, ';', true)
//   if err != nil {
//       return err
//   }
//   for parser.Next() {
//       row := parser.Row()
//       // Process the row...
//   }
//   if err := parser.Err(); err != nil {
//       return err
//   }
type Parser struct {
	reader     *csv.Reader
	headers    []string
	currentRow types.RawRow
	rowNumber  int
	err        error
}

// New creates a parser over r. When hasHeader is true the first row supplies
// the column names; otherwise names are synthesized as Column_1..Column_N
// from the width of the first data row.
func New(r io.Reader, delimiter rune, hasHeader bool) (*Parser, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	csvReader.Comma = delimiter
	// Institution exports are frequently ragged and loosely quoted.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	p := &Parser{reader: csvReader}

	if hasHeader {
		record, err := csvReader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("input is empty")
		}
		if err != nil {
			return nil, fmt.Errorf("error reading header row: %w", err)
		}
		p.rowNumber++
		p.headers = cleanHeaders(record)
	}

	return p, nil
}

// cleanHeaders trims whitespace and names empty header cells Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// syntheticHeaders names columns Column_1..Column_N for headerless files.
func syntheticHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fmt.Sprintf("Column_%d", i+1)
	}
	return headers
}

// Next advances to the next data row, skipping rows that are entirely empty.
// Returns false at end of input or on error.
func (p *Parser) Next() bool {
	if p.err != nil {
		return false
	}

	for {
		record, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
			return false
		}
		p.rowNumber++

		if isRowEmpty(record) {
			continue
		}

		if p.headers == nil {
			p.headers = syntheticHeaders(len(record))
		}

		row := make(types.RawRow, len(p.headers))
		for i, header := range p.headers {
			if i < len(record) {
				row[header] = strings.TrimSpace(record[i])
			} else {
				row[header] = ""
			}
		}
		p.currentRow = row
		return true
	}
}

// Row returns the current row.
func (p *Parser) Row() types.RawRow {
	return p.currentRow
}

// Headers returns the column names in file order.
func (p *Parser) Headers() []string {
	return p.headers
}

// RowNumber returns the 1-indexed number of the current row in the input,
// header row included.
func (p *Parser) RowNumber() int {
	return p.rowNumber
}

// Err returns any error that occurred while reading.
func (p *Parser) Err() error {
	return p.err
}

// Close is a no-op; the parser does not own the underlying reader.
func (p *Parser) Close() error {
	return nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
