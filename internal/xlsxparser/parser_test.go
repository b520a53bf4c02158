package xlsxparser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParser_WithHeader(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Date", "Amount", "Description"},
		{"03/15/2023", "-12.34", "Coffee"},
		{"03/16/2023", "1500.00", "Salary"},
	})

	p, err := New(buf, true)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"Date", "Amount", "Description"}, p.Headers())

	require.True(t, p.Next())
	assert.Equal(t, "Coffee", p.Row()["Description"])
	assert.Equal(t, 2, p.RowNumber())

	require.True(t, p.Next())
	assert.Equal(t, "1500.00", p.Row()["Amount"])

	assert.False(t, p.Next())
	assert.NoError(t, p.Err())
}

func TestParser_NoHeader(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"03/15/2023", "-12.34", "Coffee"},
	})

	p, err := New(buf, false)
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.Next())
	assert.Equal(t, "03/15/2023", p.Row()["Column_1"])
	assert.Equal(t, "Coffee", p.Row()["Column_3"])
}

func TestParser_SkipsEmptyRows(t *testing.T) {
	buf := workbookBytes(t, [][]interface{}{
		{"Date", "Amount"},
		{"", ""},
		{"03/15/2023", "1.00"},
	})

	p, err := New(buf, true)
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.Next())
	assert.Equal(t, "1.00", p.Row()["Amount"])
	assert.False(t, p.Next())
	assert.NoError(t, p.Err())
}

func TestParser_EmptyWorkbook(t *testing.T) {
	buf := workbookBytes(t, nil)

	_, err := New(buf, true)
	assert.Error(t, err)
}
