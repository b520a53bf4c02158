package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv2ofx/internal/types"
)

func minimalSpec() *Spec {
	return &Spec{
		Name: "test",
		Fields: FieldSpecs{
			Date:   &FieldSpec{Column: "Date"},
			Amount: &FieldSpec{Column: "Amount"},
		},
	}
}

func TestResolve_Defaults(t *testing.T) {
	m, err := Resolve(minimalSpec())
	require.NoError(t, err)

	assert.True(t, m.HasHeader)
	assert.False(t, m.IsSplit)
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, ',', m.Delimiter)
	assert.Equal(t, DefaultDateFmt, m.DateFmt)
	assert.Equal(t, AccountTypeBank, m.AccountType)
	assert.Equal(t, GroupByDatePayee, m.SplitGroupBy)
	assert.False(t, m.SortByDate)
	assert.Nil(t, m.ID)

	// Missing optional fields resolve to empty constants, not nil accessors.
	payee, err := m.Payee.Extract(types.RawRow{})
	require.NoError(t, err)
	assert.Equal(t, "", payee)
}

func TestResolve_MissingDate(t *testing.T) {
	spec := minimalSpec()
	spec.Fields.Date = nil

	_, err := Resolve(spec)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "date", missing.Field)
}

func TestResolve_MissingAmount(t *testing.T) {
	spec := minimalSpec()
	spec.Fields.Amount = nil

	_, err := Resolve(spec)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "amount", missing.Field)
}

func TestResolve_Overrides(t *testing.T) {
	spec := minimalSpec()
	spec.HasHeader = boolPtr(false)
	spec.Currency = "eur"
	spec.Delimiter = ";"
	spec.DateFmt = "02/01/06"
	spec.AccountType = AccountTypeCCard
	spec.Sort = "date"

	m, err := Resolve(spec)
	require.NoError(t, err)

	assert.False(t, m.HasHeader)
	assert.Equal(t, "EUR", m.Currency)
	assert.Equal(t, ';', m.Delimiter)
	assert.Equal(t, "02/01/06", m.DateFmt)
	assert.Equal(t, AccountTypeCCard, m.AccountType)
	assert.True(t, m.SortByDate)
}

func TestResolve_DelimiterNames(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{in: "tab", want: '\t'},
		{in: "\\t", want: '\t'},
		{in: "pipe", want: '|'},
		{in: "semicolon", want: ';'},
		{in: "|", want: '|'},
	}

	for _, tt := range tests {
		spec := minimalSpec()
		spec.Delimiter = tt.in
		m, err := Resolve(spec)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Delimiter, "delimiter %q", tt.in)
	}
}

func TestResolve_InvalidAccountType(t *testing.T) {
	spec := minimalSpec()
	spec.AccountType = "savings"
	_, err := Resolve(spec)
	assert.Error(t, err)
}

func TestResolve_InvalidSort(t *testing.T) {
	spec := minimalSpec()
	spec.Sort = "amount"
	_, err := Resolve(spec)
	assert.Error(t, err)
}

func TestResolve_GroupByIDRequiresIDField(t *testing.T) {
	spec := minimalSpec()
	spec.IsSplit = true
	spec.Split.GroupBy = GroupByID
	_, err := Resolve(spec)
	require.Error(t, err)

	spec.Fields.ID = &FieldSpec{Column: "Txn ID"}
	m, err := Resolve(spec)
	require.NoError(t, err)
	assert.Equal(t, GroupByID, m.SplitGroupBy)
	assert.NotNil(t, m.ID)
}

func TestResolve_HalfDebitCredit(t *testing.T) {
	spec := minimalSpec()
	spec.Fields.Amount = &FieldSpec{DebitColumn: "Débit"}
	_, err := Resolve(spec)
	assert.Error(t, err)
}

func TestResolve_StaticAccount(t *testing.T) {
	spec := minimalSpec()
	spec.Account = AccountSpec{Static: "Savings"}

	m, err := Resolve(spec)
	require.NoError(t, err)

	account, err := m.Account.Extract(types.RawRow{})
	require.NoError(t, err)
	assert.Equal(t, "Savings", account)
}

func TestResolve_ColumnAccount(t *testing.T) {
	spec := minimalSpec()
	spec.Account = AccountSpec{Spec: &FieldSpec{Column: "Account Name"}}

	m, err := Resolve(spec)
	require.NoError(t, err)

	account, err := m.Account.Extract(types.RawRow{"Account Name": "Brokerage"})
	require.NoError(t, err)
	assert.Equal(t, "Brokerage", account)
}

func TestResolve_AllBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.Names() {
		spec, ok := r.Get(name)
		require.True(t, ok)
		_, err := Resolve(spec)
		assert.NoError(t, err, "built-in mapping %q must resolve", name)
	}
}

func TestResolve_ResolutionErrorIsNotExtractionError(t *testing.T) {
	spec := minimalSpec()
	spec.Fields.Amount = nil
	_, err := Resolve(spec)

	var missing *MissingRequiredFieldError
	assert.True(t, errors.As(err, &missing))
}
