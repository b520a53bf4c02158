// =============================================================================
// CSV to OFX/QIF Converter - Field Extractor
// =============================================================================
//
// The extractor applies a resolved mapping's accessors to one raw row and
// produces a typed field set. Dates come out as in-memory time values, never
// strings, so output formatting is unambiguous; amounts come out as exact
// decimals, never floats, so cent-level drift cannot accumulate across a
// statement. Any accessor failure is wrapped in a FieldExtractionError
// carrying the field name and row number.
//
// =============================================================================

package converter

import (
	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Extractor extracts typed field sets from raw rows using a resolved mapping.
type Extractor struct {
	mapping *mapping.ResolvedMapping
}

// NewExtractor creates an extractor for the given mapping.
func NewExtractor(m *mapping.ResolvedMapping) *Extractor {
	return &Extractor{mapping: m}
}

// Extract applies every declared accessor to row. rowNumber is the 1-indexed
// position of the row in the input, used in error reporting only.
func (e *Extractor) Extract(row types.RawRow, rowNumber int) (types.FieldSet, error) {
	var fs types.FieldSet
	fs.RowNumber = rowNumber

	var err error
	if fs.Date, err = e.mapping.Date.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "date", RowNumber: rowNumber, Cause: err}
	}
	if fs.Amount, err = e.mapping.Amount.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "amount", RowNumber: rowNumber, Cause: err}
	}
	if fs.Account, err = e.mapping.Account.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "account", RowNumber: rowNumber, Cause: err}
	}
	if fs.Payee, err = e.mapping.Payee.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "payee", RowNumber: rowNumber, Cause: err}
	}
	if fs.Notes, err = e.mapping.Notes.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "notes", RowNumber: rowNumber, Cause: err}
	}
	if fs.Category, err = e.mapping.Category.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "category", RowNumber: rowNumber, Cause: err}
	}
	if fs.CheckNum, err = e.mapping.CheckNum.Extract(row); err != nil {
		return types.FieldSet{}, &FieldExtractionError{Field: "check_num", RowNumber: rowNumber, Cause: err}
	}
	if e.mapping.ID != nil {
		if fs.ID, err = e.mapping.ID.Extract(row); err != nil {
			return types.FieldSet{}, &FieldExtractionError{Field: "id", RowNumber: rowNumber, Cause: err}
		}
	}

	return fs, nil
}
