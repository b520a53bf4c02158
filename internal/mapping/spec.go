// =============================================================================
// CSV to OFX/QIF Converter - Mapping Specification
// =============================================================================
//
// A mapping specification describes how to read one institution's CSV dialect:
// which column holds the date and in what layout, how the signed amount is
// expressed (a single column, or separate debit/credit columns), where the
// payee and memo live, and so on. Mappings are declarative data, authored as
// YAML files or registered as built-ins; the engine never contains
// per-institution logic.
//
// =============================================================================

package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the declarative, immutable mapping configuration for one
// institution. All fields are optional except fields.date and fields.amount;
// defaults are filled in by Resolve.
type Spec struct {
	// Name identifies the mapping in the registry and in logs.
	Name string `yaml:"name"`

	// Description is a human-readable summary shown by `csv2ofx mappings`.
	Description string `yaml:"description,omitempty"`

	// FilePatterns is a list of glob patterns matched against input file
	// names when selecting a mapping automatically in batch mode.
	FilePatterns []string `yaml:"file_patterns,omitempty"`

	// HasHeader reports whether row 1 of the input is a header row.
	// Default: true.
	HasHeader *bool `yaml:"has_header,omitempty"`

	// IsSplit reports whether each logical transaction spans multiple
	// consecutive input rows, one per ledger leg. Default: false.
	IsSplit bool `yaml:"is_split,omitempty"`

	// Currency is the ISO 4217 code for all transactions. Default: "USD".
	Currency string `yaml:"currency,omitempty"`

	// Delimiter is the CSV field separator. Default: ",".
	Delimiter string `yaml:"delimiter,omitempty"`

	// DateFmt is the Go layout used to render dates in QIF output.
	// Default: "01/02/06" (GnuCash wants US-style dates in QIF).
	DateFmt string `yaml:"date_fmt,omitempty"`

	// Account is the destination account: either a static name or a per-row
	// accessor spec.
	Account AccountSpec `yaml:"account,omitempty"`

	// AccountType selects the statement flavor: "bank" (default) or "ccard".
	AccountType string `yaml:"account_type,omitempty"`

	// Fields holds the per-field accessor specs.
	Fields FieldSpecs `yaml:"fields"`

	// Split configures split-transaction grouping; meaningful only when
	// is_split is true.
	Split SplitSpec `yaml:"split,omitempty"`

	// Sort optionally orders transactions within an account group.
	// Supported value: "date" (ascending). Empty preserves input order.
	Sort string `yaml:"sort,omitempty"`
}

// FieldSpecs holds the accessor spec for each canonical transaction field.
// date and amount are required; the rest default to empty values.
type FieldSpecs struct {
	Date     *FieldSpec `yaml:"date"`
	Amount   *FieldSpec `yaml:"amount"`
	Payee    *FieldSpec `yaml:"payee,omitempty"`
	Notes    *FieldSpec `yaml:"notes,omitempty"`
	Category *FieldSpec `yaml:"category,omitempty"`
	CheckNum *FieldSpec `yaml:"check_num,omitempty"`
	ID       *FieldSpec `yaml:"id,omitempty"`
}

// FieldSpec declares how one field is extracted from a raw row.
// Exactly one of Column, Constant, or the DebitColumn/CreditColumn pair
// should be set.
type FieldSpec struct {
	// Column reads the value of a single named column.
	Column string `yaml:"column,omitempty"`

	// Constant yields a fixed value for every row.
	Constant string `yaml:"constant,omitempty"`

	// Format is the Go time layout of the institution's native date format.
	// Only meaningful for the date field.
	Format string `yaml:"format,omitempty"`

	// DebitColumn and CreditColumn combine two columns into one signed
	// amount. Exactly one of the two must be populated per row; a row with
	// both populated is a data error. Only meaningful for the amount field.
	DebitColumn  string `yaml:"debit_column,omitempty"`
	CreditColumn string `yaml:"credit_column,omitempty"`

	// NegateDebit flips the sign of values taken from DebitColumn, for
	// institutions that export debits as unsigned magnitudes.
	NegateDebit bool `yaml:"negate_debit,omitempty"`

	// Negate flips the sign of the extracted amount. This is the mapping's
	// polarity hint; absent, the accessor's sign is trusted.
	Negate bool `yaml:"negate,omitempty"`
}

// SplitSpec configures how consecutive rows are grouped into one split
// transaction.
type SplitSpec struct {
	// GroupBy designates the grouping key: "date_payee" (default) or "id".
	GroupBy string `yaml:"group_by,omitempty"`
}

// AccountSpec is either a static account name or a per-row accessor spec.
// In YAML it accepts a plain scalar (static name) or a mapping node with a
// "column" key.
type AccountSpec struct {
	Static string
	Spec   *FieldSpec
}

// UnmarshalYAML accepts both scalar and mapping forms.
func (a *AccountSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&a.Static)
	case yaml.MappingNode:
		a.Spec = &FieldSpec{}
		return node.Decode(a.Spec)
	default:
		return fmt.Errorf("account must be a string or a field spec")
	}
}

// MarshalYAML renders the scalar form when the account is static.
func (a AccountSpec) MarshalYAML() (interface{}, error) {
	if a.Spec != nil {
		return a.Spec, nil
	}
	return a.Static, nil
}

// IsZero reports whether no account was declared.
func (a AccountSpec) IsZero() bool {
	return a.Static == "" && a.Spec == nil
}

// LoadFile reads a mapping specification from a YAML file.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	if spec.Name == "" {
		return nil, fmt.Errorf("mapping file %s declares no name", path)
	}

	return &spec, nil
}
