// =============================================================================
// CSV to OFX/QIF Converter - Account Grouper
// =============================================================================
//
// The grouper buckets normalized transactions by destination account so that
// serializers can emit one statement block per account. Bucket order follows
// first appearance in the input; in-bucket order is the input order unless
// the mapping declares a date sort. Same input, same mapping, same grouping —
// every run.
//
// =============================================================================

package converter

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Group buckets transactions by account. When the mapping declares sort:
// date, transactions are ordered date-ascending first (stable, so same-day
// transactions keep their input order).
func Group(txns []types.Transaction, m *mapping.ResolvedMapping) *types.AccountGroups {
	if m.SortByDate {
		sorted := make([]types.Transaction, len(txns))
		copy(sorted, txns)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})
		txns = sorted
	}

	groups := types.NewAccountGroups()
	for _, t := range txns {
		groups.Add(t)
	}
	return groups
}

// ExpandSplits mirrors each counter-leg of a split transaction into its own
// account as a standalone transaction, the double-entry view OFX statements
// need (OFX has no split representation; each account's statement shows its
// own leg). Leg ids are suffixed so they stay unique when the mapping
// supplies ids.
func ExpandSplits(txns []types.Transaction) []types.Transaction {
	expanded := make([]types.Transaction, 0, len(txns))
	for _, t := range txns {
		if len(t.Splits) == 0 {
			expanded = append(expanded, t)
			continue
		}

		main := t
		main.Splits = nil
		expanded = append(expanded, main)

		for i, leg := range t.Splits {
			mirrored := types.Transaction{
				Date:     t.Date,
				Amount:   leg.Amount,
				Payee:    t.Payee,
				Account:  leg.Account,
				Notes:    leg.Memo,
				Category: t.Category,
				CheckNum: t.CheckNum,
				Currency: t.Currency,
			}
			if t.ID != "" {
				mirrored.ID = fmt.Sprintf("%s-%d", t.ID, i+1)
			}
			expanded = append(expanded, mirrored)
		}
	}
	return expanded
}
