// =============================================================================
// CSV to OFX/QIF Converter - XLSX Row Source
// =============================================================================
//
// Some institutions only offer statement downloads as XLSX workbooks. This
// module reads the first sheet of a workbook and surfaces its rows under the
// same header -> value contract as the CSV parser, so the rest of the
// pipeline does not care which source produced a row.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Parser iterates the data rows of the first sheet of an XLSX workbook.
// It satisfies the same row-source contract as csvparser.Parser.
type Parser struct {
	file      *excelize.File
	rows      *excelize.Rows
	headers   []string
	current   types.RawRow
	rowNumber int
	err       error
}

// New opens the workbook read from r. When hasHeader is true the first row of
// the first sheet supplies the column names; otherwise names are synthesized
// as Column_1..Column_N from the width of the first data row.
func New(r io.Reader, hasHeader bool) (*Parser, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		f.Close()
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	p := &Parser{file: f, rows: rows}

	if hasHeader {
		if !rows.Next() {
			f.Close()
			return nil, fmt.Errorf("sheet %s is empty", sheetName)
		}
		record, err := rows.Columns()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("error reading header row: %w", err)
		}
		p.rowNumber++
		p.headers = cleanHeaders(record)
	}

	return p, nil
}

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

// Next advances to the next non-empty data row.
func (p *Parser) Next() bool {
	if p.err != nil {
		return false
	}

	for p.rows.Next() {
		record, err := p.rows.Columns()
		if err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
			return false
		}
		p.rowNumber++

		if isRowEmpty(record) {
			continue
		}

		if p.headers == nil {
			p.headers = make([]string, len(record))
			for i := range record {
				p.headers[i] = fmt.Sprintf("Column_%d", i+1)
			}
		}

		row := make(types.RawRow, len(p.headers))
		for i, header := range p.headers {
			if i < len(record) {
				row[header] = strings.TrimSpace(record[i])
			} else {
				row[header] = ""
			}
		}
		p.current = row
		return true
	}

	if err := p.rows.Error(); err != nil {
		p.err = fmt.Errorf("error iterating rows: %w", err)
	}
	return false
}

// Row returns the current row.
func (p *Parser) Row() types.RawRow {
	return p.current
}

// Headers returns the column names in sheet order.
func (p *Parser) Headers() []string {
	return p.headers
}

// RowNumber returns the 1-indexed number of the current row in the sheet,
// header row included.
func (p *Parser) RowNumber() int {
	return p.rowNumber
}

// Err returns any error that occurred while reading.
func (p *Parser) Err() error {
	return p.err
}

// Close releases the workbook.
func (p *Parser) Close() error {
	if err := p.rows.Close(); err != nil {
		p.file.Close()
		return err
	}
	return p.file.Close()
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
