// =============================================================================
// CSV to OFX/QIF Converter - Transaction Normalizer
// =============================================================================
//
// The normalizer assembles extracted field sets into canonical transactions.
// In non-split mode each field set becomes one transaction. In split mode,
// consecutive field sets sharing the mapping's grouping key form one logical
// transaction of two or more ledger legs, which must sum to exactly zero;
// only the currently open group is buffered, never the whole input.
//
// =============================================================================

package converter

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

// Normalizer turns field sets into transactions, expanding split groups.
type Normalizer struct {
	mapping *mapping.ResolvedMapping

	// open holds the legs of the currently open split group.
	open    []types.FieldSet
	openKey string
}

// NewNormalizer creates a normalizer for the given mapping.
func NewNormalizer(m *mapping.ResolvedMapping) *Normalizer {
	return &Normalizer{mapping: m}
}

// Add feeds the next field set, in input order. It returns any transactions
// completed by this row: exactly one in non-split mode, zero or one in split
// mode (a group closes when a row with a different key arrives).
func (n *Normalizer) Add(fs types.FieldSet) ([]types.Transaction, error) {
	if !n.mapping.IsSplit {
		return []types.Transaction{n.single(fs)}, nil
	}

	key := n.groupKey(fs)
	if len(n.open) == 0 || key == n.openKey {
		n.open = append(n.open, fs)
		n.openKey = key
		return nil, nil
	}

	closed, err := n.closeGroup()
	if err != nil {
		return nil, err
	}
	n.open = append(n.open[:0], fs)
	n.openKey = key
	return []types.Transaction{closed}, nil
}

// Flush closes the trailing split group, if any. Must be called after the
// last row.
func (n *Normalizer) Flush() ([]types.Transaction, error) {
	if !n.mapping.IsSplit || len(n.open) == 0 {
		return nil, nil
	}
	closed, err := n.closeGroup()
	if err != nil {
		return nil, err
	}
	n.open = nil
	return []types.Transaction{closed}, nil
}

func (n *Normalizer) single(fs types.FieldSet) types.Transaction {
	return types.Transaction{
		Date:     fs.Date,
		Amount:   fs.Amount,
		Payee:    fs.Payee,
		Account:  fs.Account,
		Notes:    fs.Notes,
		Category: fs.Category,
		CheckNum: fs.CheckNum,
		ID:       fs.ID,
		Currency: n.mapping.Currency,
	}
}

// groupKey returns the mapping-designated key that decides which consecutive
// rows belong to the same split transaction.
func (n *Normalizer) groupKey(fs types.FieldSet) string {
	if n.mapping.SplitGroupBy == mapping.GroupByID {
		return fs.ID
	}
	return fs.Date.Format("2006-01-02") + "\x00" + fs.Payee
}

// closeGroup validates the open split group and assembles it into one
// transaction. The first leg supplies the main account and amount; the
// remaining legs become counter-legs.
func (n *Normalizer) closeGroup() (types.Transaction, error) {
	if len(n.open) < 2 {
		return types.Transaction{}, &IncompleteSplitError{Key: n.openKey, Legs: len(n.open)}
	}

	sum := decimal.Zero
	legs := make([]types.Split, 0, len(n.open))
	for _, fs := range n.open {
		sum = sum.Add(fs.Amount)
		legs = append(legs, types.Split{Account: fs.Account, Amount: fs.Amount, Memo: fs.Notes})
	}
	if !sum.IsZero() {
		return types.Transaction{}, &UnbalancedSplitError{Key: n.openKey, Legs: legs, Sum: sum}
	}

	main := n.single(n.open[0])
	main.Splits = legs[1:]
	return main, nil
}
