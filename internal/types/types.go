// =============================================================================
// CSV to OFX/QIF Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - converter
//   - ofxwriter
//   - qifwriter
//
// =============================================================================

package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is a single input row keyed by column header. Row sources produce
// RawRows; no downstream stage mutates one.
type RawRow map[string]string

// FieldSet is the typed result of extracting one raw row through a mapping.
type FieldSet struct {
	// Date is the transaction date parsed from the institution's native
	// format into an in-memory value.
	Date time.Time

	// Amount is the signed transaction amount with the input's fractional
	// precision preserved exactly.
	Amount decimal.Decimal

	// Payee is the counterparty or description field.
	Payee string

	// Account is the destination account for this row.
	Account string

	// Notes is free-form memo text.
	Notes string

	// Category is the bookkeeping category, when the institution exports one.
	Category string

	// CheckNum is the check or reference number, if any.
	CheckNum string

	// ID is the institution-supplied transaction id, empty when the mapping
	// declares no id accessor.
	ID string

	// RowNumber is the 1-indexed row number in the input file, header rows
	// included. Used in error reporting.
	RowNumber int
}

// Split is one counter-leg of a split transaction.
type Split struct {
	Account string
	Amount  decimal.Decimal

	// Memo is the leg's own memo text, independent of the main transaction's
	// notes.
	Memo string
}

// Transaction is the canonical normalized record. Immutable once constructed.
// Amount sign convention: positive = credit/inflow to Account, negative =
// debit/outflow.
type Transaction struct {
	Date     time.Time
	Amount   decimal.Decimal
	Payee    string
	Account  string
	Notes    string
	Category string
	CheckNum string
	ID       string
	Currency string

	// Splits holds the counter-legs when the transaction was assembled from
	// multiple input rows. Nil for non-split transactions.
	Splits []Split
}

// AccountGroups buckets transactions by account while preserving the order in
// which accounts first appeared. Built once by the grouper, consumed once by a
// serializer, not mutated afterward.
type AccountGroups struct {
	order  []string
	groups map[string][]Transaction
}

// NewAccountGroups returns an empty AccountGroups.
func NewAccountGroups() *AccountGroups {
	return &AccountGroups{groups: make(map[string][]Transaction)}
}

// Add appends a transaction to its account's bucket, creating the bucket on
// first use.
func (g *AccountGroups) Add(t Transaction) {
	if _, ok := g.groups[t.Account]; !ok {
		g.order = append(g.order, t.Account)
	}
	g.groups[t.Account] = append(g.groups[t.Account], t)
}

// Accounts returns the account names in first-seen order.
func (g *AccountGroups) Accounts() []string {
	return g.order
}

// Transactions returns the ordered transactions for an account.
func (g *AccountGroups) Transactions(account string) []Transaction {
	return g.groups[account]
}

// Len returns the total number of transactions across all accounts.
func (g *AccountGroups) Len() int {
	n := 0
	for _, txns := range g.groups {
		n += len(txns)
	}
	return n
}

// SerializationError reports that a target format cannot represent a value.
type SerializationError struct {
	Format string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize to %s: %s", e.Format, e.Reason)
}
