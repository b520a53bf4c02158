// =============================================================================
// CSV to OFX/QIF Converter - Mapping Resolver
// =============================================================================
//
// The resolver validates a declarative mapping specification and normalizes
// it into a canonical ResolvedMapping with all defaults filled in and every
// field accessor constructed. Resolution is pure: it never touches data rows,
// and extraction failures surface later at the field extractor boundary.
//
// Documented defaults:
//   has_header = true
//   is_split   = false
//   currency   = "USD"
//   delimiter  = ','
//   date_fmt   = "01/02/06"
//   account_type = "bank"
//   split.group_by = "date_payee"
//
// =============================================================================

package mapping

import (
	"fmt"
	"strings"
)

// Grouping key designators for split mappings.
const (
	GroupByDatePayee = "date_payee"
	GroupByID        = "id"
)

// Account statement flavors.
const (
	AccountTypeBank  = "bank"
	AccountTypeCCard = "ccard"
)

// DefaultDateFmt is the QIF output date layout used when a mapping declares
// none. GnuCash expects US-style dates in QIF imports.
const DefaultDateFmt = "01/02/06"

// MissingRequiredFieldError reports a mapping that lacks a required accessor.
// Raised at resolution time, before any data row is read.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("mapping is missing required field %q", e.Field)
}

// ResolvedMapping is the canonical internal form of a mapping specification:
// defaults applied, accessors constructed, read-only for the rest of the run.
type ResolvedMapping struct {
	Name        string
	HasHeader   bool
	IsSplit     bool
	Currency    string
	Delimiter   rune
	DateFmt     string
	AccountType string

	// SplitGroupBy is GroupByDatePayee or GroupByID.
	SplitGroupBy string

	// SortByDate orders transactions date-ascending within each account
	// group. False preserves input order.
	SortByDate bool

	Account  StringAccessor
	Date     DateAccessor
	Amount   AmountAccessor
	Payee    StringAccessor
	Notes    StringAccessor
	Category StringAccessor
	CheckNum StringAccessor

	// ID is nil when the mapping declares no id accessor; serializers then
	// generate deterministic ids from transaction content.
	ID StringAccessor
}

// Resolve validates spec and returns its canonical form.
func Resolve(spec *Spec) (*ResolvedMapping, error) {
	if spec.Fields.Date == nil {
		return nil, &MissingRequiredFieldError{Field: "date"}
	}
	if spec.Fields.Amount == nil {
		return nil, &MissingRequiredFieldError{Field: "amount"}
	}

	m := &ResolvedMapping{
		Name:         spec.Name,
		HasHeader:    true,
		IsSplit:      spec.IsSplit,
		Currency:     "USD",
		Delimiter:    ',',
		DateFmt:      DefaultDateFmt,
		AccountType:  AccountTypeBank,
		SplitGroupBy: GroupByDatePayee,
	}

	if spec.HasHeader != nil {
		m.HasHeader = *spec.HasHeader
	}
	if spec.Currency != "" {
		m.Currency = strings.ToUpper(strings.TrimSpace(spec.Currency))
	}
	if spec.Delimiter != "" {
		m.Delimiter = delimiterRune(spec.Delimiter)
	}
	if spec.DateFmt != "" {
		m.DateFmt = spec.DateFmt
	}

	switch spec.AccountType {
	case "", AccountTypeBank:
	case AccountTypeCCard:
		m.AccountType = AccountTypeCCard
	default:
		return nil, fmt.Errorf("unknown account_type %q", spec.AccountType)
	}

	switch spec.Sort {
	case "":
	case "date":
		m.SortByDate = true
	default:
		return nil, fmt.Errorf("unknown sort key %q", spec.Sort)
	}

	switch spec.Split.GroupBy {
	case "", GroupByDatePayee:
	case GroupByID:
		if spec.Fields.ID == nil {
			return nil, fmt.Errorf("split.group_by is %q but the mapping declares no id field", GroupByID)
		}
		m.SplitGroupBy = GroupByID
	default:
		return nil, fmt.Errorf("unknown split.group_by %q", spec.Split.GroupBy)
	}

	var err error
	if m.Date, err = resolveDate(spec.Fields.Date); err != nil {
		return nil, err
	}
	if m.Amount, err = resolveAmount(spec.Fields.Amount); err != nil {
		return nil, err
	}
	if m.Account, err = resolveAccount(spec.Account); err != nil {
		return nil, err
	}
	if m.Payee, err = resolveString("payee", spec.Fields.Payee); err != nil {
		return nil, err
	}
	if m.Notes, err = resolveString("notes", spec.Fields.Notes); err != nil {
		return nil, err
	}
	if m.Category, err = resolveString("category", spec.Fields.Category); err != nil {
		return nil, err
	}
	if m.CheckNum, err = resolveString("check_num", spec.Fields.CheckNum); err != nil {
		return nil, err
	}
	if spec.Fields.ID != nil {
		if m.ID, err = resolveString("id", spec.Fields.ID); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func resolveDate(fs *FieldSpec) (DateAccessor, error) {
	if fs.Column == "" {
		return nil, fmt.Errorf("date field spec declares no column")
	}
	layout := fs.Format
	if layout == "" {
		layout = "01/02/2006"
	}
	return DateColumn(fs.Column, layout), nil
}

func resolveAmount(fs *FieldSpec) (AmountAccessor, error) {
	switch {
	case fs.DebitColumn != "" && fs.CreditColumn != "":
		return DebitCredit(fs.DebitColumn, fs.CreditColumn, fs.NegateDebit, fs.Negate), nil
	case fs.DebitColumn != "" || fs.CreditColumn != "":
		return nil, fmt.Errorf("amount field spec declares only one of debit_column/credit_column")
	case fs.Column != "":
		return AmountColumn(fs.Column, fs.Negate), nil
	default:
		return nil, fmt.Errorf("amount field spec declares no column")
	}
}

func resolveAccount(a AccountSpec) (StringAccessor, error) {
	switch {
	case a.Spec != nil:
		if a.Spec.Column == "" {
			return nil, fmt.Errorf("account field spec declares no column")
		}
		return Column(a.Spec.Column), nil
	case a.Static != "":
		return Constant(a.Static), nil
	default:
		return Constant(""), nil
	}
}

func resolveString(name string, fs *FieldSpec) (StringAccessor, error) {
	if fs == nil {
		return Constant(""), nil
	}
	switch {
	case fs.Column != "":
		return Column(fs.Column), nil
	case fs.Constant != "":
		return Constant(fs.Constant), nil
	default:
		return nil, fmt.Errorf("%s field spec declares neither column nor constant", name)
	}
}

// delimiterRune interprets the delimiter setting, handling the spelled-out
// forms that appear in hand-authored mapping files.
func delimiterRune(s string) rune {
	switch s {
	case "\\t", "tab", "TAB":
		return '\t'
	case "pipe", "PIPE":
		return '|'
	case "semicolon":
		return ';'
	default:
		return []rune(s)[0]
	}
}
