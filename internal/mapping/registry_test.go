package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"default", "asl", "mint", "gnucash"} {
		_, ok := r.Get(name)
		assert.True(t, ok, "built-in mapping %q must be registered", name)
	}

	names := r.Names()
	assert.Equal(t, []string{"asl", "default", "gnucash", "mint"}, names)
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()

	yamlContent := `name: mybank
description: My Bank checking export
currency: GBP
delimiter: ";"
account: Current Account
file_patterns:
  - "mybank_*.csv"
fields:
  date:
    column: Date
    format: "02/01/2006"
  amount:
    debit_column: Paid out
    credit_column: Paid in
    negate_debit: true
  payee:
    column: Description
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mybank.yaml"), []byte(yamlContent), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadDir(dir))

	spec, ok := r.Get("mybank")
	require.True(t, ok)
	assert.Equal(t, "GBP", spec.Currency)
	assert.Equal(t, "Current Account", spec.Account.Static)
	require.NotNil(t, spec.Fields.Amount)
	assert.Equal(t, "Paid out", spec.Fields.Amount.DebitColumn)
	assert.True(t, spec.Fields.Amount.NegateDebit)

	// Loaded mappings must resolve like built-ins do.
	_, err := Resolve(spec)
	assert.NoError(t, err)
}

func TestRegistry_LoadDir_ColumnAccount(t *testing.T) {
	dir := t.TempDir()

	yamlContent := `name: multi
account:
  column: Account Name
fields:
  date:
    column: Date
  amount:
    column: Amount
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "multi.yml"), []byte(yamlContent), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadDir(dir))

	spec, ok := r.Get("multi")
	require.True(t, ok)
	require.NotNil(t, spec.Account.Spec)
	assert.Equal(t, "Account Name", spec.Account.Spec.Column)
}

func TestRegistry_LoadDir_MissingDirIsNotAnError(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.LoadDir(filepath.Join(t.TempDir(), "does-not-exist")))
}

func TestRegistry_LoadDir_UnparseableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: [unclosed"), 0o644))

	r := NewRegistry()
	assert.Error(t, r.LoadDir(dir))
}

func TestRegistry_LoadDir_ShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()

	yamlContent := `name: default
currency: CAD
fields:
  date:
    column: Date
  amount:
    column: Amount
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(yamlContent), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadDir(dir))

	spec, ok := r.Get("default")
	require.True(t, ok)
	assert.Equal(t, "CAD", spec.Currency)
}

func TestRegistry_Match(t *testing.T) {
	r := NewRegistry()

	spec := r.Match("/data/input/asl_2023-03.csv")
	require.NotNil(t, spec)
	assert.Equal(t, "asl", spec.Name)

	spec = r.Match("gnucash_export.csv")
	require.NotNil(t, spec)
	assert.Equal(t, "gnucash", spec.Name)

	assert.Nil(t, r.Match("statement.csv"))
}
