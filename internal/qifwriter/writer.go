// =============================================================================
// CSV to OFX/QIF Converter - QIF Serializer
// =============================================================================
//
// This module renders grouped transactions in Quicken Interchange Format:
// per account group an !Account header block, a !Type header, then one
// line-block per transaction using QIF's field-prefix convention:
//
//   D  date (formatted per the mapping's date_fmt)
//   T  amount
//   N  check number
//   P  payee
//   M  memo
//   L  category
//   S  split category / transfer account
//   E  split memo
//   $  split amount
//   ^  end of record
//
// Split counter-legs are written as [Account] transfer lines; their $ amounts
// carry the opposite sign of the leg so the split lines sum to the T amount,
// as QIF consumers expect.
//
// =============================================================================

package qifwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Write serializes groups as a QIF document to w, one account block at a
// time.
func Write(groups *types.AccountGroups, m *mapping.ResolvedMapping, w io.Writer) error {
	typeName := "Bank"
	if m.AccountType == mapping.AccountTypeCCard {
		typeName = "CCard"
	}

	for _, account := range groups.Accounts() {
		var sb strings.Builder

		sb.WriteString("!Account\n")
		sb.WriteString("N")
		sb.WriteString(clean(account))
		sb.WriteString("\n")
		sb.WriteString("T")
		sb.WriteString(typeName)
		sb.WriteString("\n^\n")
		sb.WriteString("!Type:")
		sb.WriteString(typeName)
		sb.WriteString("\n")

		for _, t := range groups.Transactions(account) {
			writeTransaction(&sb, t, m)
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeTransaction(sb *strings.Builder, t types.Transaction, m *mapping.ResolvedMapping) {
	fmt.Fprintf(sb, "D%s\n", t.Date.Format(m.DateFmt))
	fmt.Fprintf(sb, "T%s\n", t.Amount.StringFixed(2))
	if t.CheckNum != "" {
		fmt.Fprintf(sb, "N%s\n", clean(t.CheckNum))
	}
	if t.Payee != "" {
		fmt.Fprintf(sb, "P%s\n", clean(t.Payee))
	}
	if t.Notes != "" {
		fmt.Fprintf(sb, "M%s\n", clean(t.Notes))
	}
	if t.Category != "" {
		fmt.Fprintf(sb, "L%s\n", clean(t.Category))
	}

	for _, leg := range t.Splits {
		fmt.Fprintf(sb, "S[%s]\n", clean(leg.Account))
		if leg.Memo != "" {
			fmt.Fprintf(sb, "E%s\n", clean(leg.Memo))
		}
		// The leg's inflow is this transaction's outflow: split amounts
		// must sum to the T amount.
		fmt.Fprintf(sb, "$%s\n", leg.Amount.Neg().StringFixed(2))
	}

	sb.WriteString("^\n")
}

// clean strips line breaks, which QIF's line-oriented records cannot carry.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
