package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Logical Field", "Synonym 1", "Synonym 2"},
		{"poNumber", "Order No", "PO#"},
		{"", "orphan"},
		{},
		{"quantity", "", "Units"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	_, err := f.NewSheet("More")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("More", "A1", &[]interface{}{"Logical Field", "Synonym 1"}))
	require.NoError(t, f.SetSheetRow("More", "A2", &[]interface{}{"poNumber", "Purchase Order"}))

	_, err = f.NewSheet("_notes")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("_notes", "A2", &[]interface{}{"poNumber", "ignored"}))

	path := filepath.Join(t.TempDir(), "synonyms.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseColumnWorkbook(t *testing.T) {
	synonyms, err := ParseColumnWorkbook(buildWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"poNumber": {"Order No", "PO#", "Purchase Order"},
		"quantity": {"Units"},
	}, synonyms)
}

func TestParseColumnWorkbookWithConfig(t *testing.T) {
	synonyms, err := ParseColumnWorkbookWithConfig(buildWorkbook(t), WorkbookColumns{
		FieldColumn:        0,
		FirstSynonymColumn: 2,
		DataStartRow:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"PO#"}, synonyms["poNumber"])
	assert.Equal(t, []string{"Units"}, synonyms["quantity"])
}

func TestParseColumnWorkbookMissingFile(t *testing.T) {
	_, err := ParseColumnWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorContains(t, err, "failed to open synonym workbook")
}
