package converter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

func fieldSet(date string, amount string, payee, account string) types.FieldSet {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return types.FieldSet{
		Date:    d,
		Amount:  decimal.RequireFromString(amount),
		Payee:   payee,
		Account: account,
	}
}

func TestNormalizer_NonSplit(t *testing.T) {
	m := resolveSpec(t, &mapping.Spec{
		Name:     "test",
		Currency: "EUR",
		Fields: mapping.FieldSpecs{
			Date:   &mapping.FieldSpec{Column: "Date"},
			Amount: &mapping.FieldSpec{Column: "Amount"},
		},
	})
	n := NewNormalizer(m)

	txns, err := n.Add(fieldSet("2023-03-15", "12.34", "Coffee", "Checking"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "12.34", txns[0].Amount.String())
	assert.Equal(t, "EUR", txns[0].Currency)
	assert.Nil(t, txns[0].Splits)

	trailing, err := n.Flush()
	require.NoError(t, err)
	assert.Empty(t, trailing)
}

func splitMapping(t *testing.T) *mapping.ResolvedMapping {
	t.Helper()
	return resolveSpec(t, &mapping.Spec{
		Name:    "split",
		IsSplit: true,
		Fields: mapping.FieldSpecs{
			Date:   &mapping.FieldSpec{Column: "Date"},
			Amount: &mapping.FieldSpec{Column: "Amount"},
		},
	})
}

func TestNormalizer_BalancedSplit(t *testing.T) {
	n := NewNormalizer(splitMapping(t))

	txns, err := n.Add(fieldSet("2023-03-15", "-50.00", "Transfer", "Checking"))
	require.NoError(t, err)
	assert.Empty(t, txns)

	txns, err = n.Add(fieldSet("2023-03-15", "50.00", "Transfer", "Savings"))
	require.NoError(t, err)
	assert.Empty(t, txns)

	txns, err = n.Flush()
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, "Checking", txn.Account)
	assert.Equal(t, "-50", txn.Amount.String())
	require.Len(t, txn.Splits, 1)
	assert.Equal(t, "Savings", txn.Splits[0].Account)
	assert.Equal(t, "50", txn.Splits[0].Amount.String())
}

func TestNormalizer_GroupClosesOnKeyChange(t *testing.T) {
	n := NewNormalizer(splitMapping(t))

	_, err := n.Add(fieldSet("2023-03-15", "-50.00", "Transfer", "Checking"))
	require.NoError(t, err)
	_, err = n.Add(fieldSet("2023-03-15", "50.00", "Transfer", "Savings"))
	require.NoError(t, err)

	// A row with a different payee closes the open group.
	txns, err := n.Add(fieldSet("2023-03-15", "-20.00", "Groceries", "Checking"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Transfer", txns[0].Payee)
}

func TestNormalizer_ThreeLegSplit(t *testing.T) {
	n := NewNormalizer(splitMapping(t))

	_, err := n.Add(fieldSet("2023-03-15", "-100.00", "Paycheck", "Checking"))
	require.NoError(t, err)
	_, err = n.Add(fieldSet("2023-03-15", "60.00", "Paycheck", "Rent"))
	require.NoError(t, err)
	_, err = n.Add(fieldSet("2023-03-15", "40.00", "Paycheck", "Food"))
	require.NoError(t, err)

	txns, err := n.Flush()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Len(t, txns[0].Splits, 2)
}

func TestNormalizer_UnbalancedSplit(t *testing.T) {
	n := NewNormalizer(splitMapping(t))

	_, err := n.Add(fieldSet("2023-03-15", "-50.00", "Transfer", "Checking"))
	require.NoError(t, err)
	_, err = n.Add(fieldSet("2023-03-15", "49.99", "Transfer", "Savings"))
	require.NoError(t, err)

	_, err = n.Flush()
	var unbalanced *UnbalancedSplitError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "-0.01", unbalanced.Sum.String())
	assert.Len(t, unbalanced.Legs, 2)
}

func TestNormalizer_IncompleteSplit(t *testing.T) {
	n := NewNormalizer(splitMapping(t))

	_, err := n.Add(fieldSet("2023-03-15", "-50.00", "Transfer", "Checking"))
	require.NoError(t, err)

	_, err = n.Flush()
	var incomplete *IncompleteSplitError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, incomplete.Legs)
}

func TestNormalizer_GroupByID(t *testing.T) {
	m := resolveSpec(t, &mapping.Spec{
		Name:    "split-id",
		IsSplit: true,
		Split:   mapping.SplitSpec{GroupBy: mapping.GroupByID},
		Fields: mapping.FieldSpecs{
			Date:   &mapping.FieldSpec{Column: "Date"},
			Amount: &mapping.FieldSpec{Column: "Amount"},
			ID:     &mapping.FieldSpec{Column: "Txn ID"},
		},
	})
	n := NewNormalizer(m)

	first := fieldSet("2023-03-15", "-50.00", "Same Payee", "Checking")
	first.ID = "T1"
	second := fieldSet("2023-03-15", "50.00", "Same Payee", "Savings")
	second.ID = "T1"
	third := fieldSet("2023-03-15", "-20.00", "Same Payee", "Checking")
	third.ID = "T2"
	fourth := fieldSet("2023-03-15", "20.00", "Same Payee", "Food")
	fourth.ID = "T2"

	_, err := n.Add(first)
	require.NoError(t, err)
	_, err = n.Add(second)
	require.NoError(t, err)

	// Same date and payee, but a new id closes the group.
	txns, err := n.Add(third)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "T1", txns[0].ID)

	_, err = n.Add(fourth)
	require.NoError(t, err)
	txns, err = n.Flush()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "T2", txns[0].ID)
}
