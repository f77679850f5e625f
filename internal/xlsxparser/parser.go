// =============================================================================
// PO Decoder - Column Synonym Workbook Parser
// =============================================================================
//
// Partners whose CSV export uses unusual column names can maintain their
// synonyms in an XLSX workbook instead of YAML. The workbook is read into the
// same logical field -> candidate names map as the inline column_synonyms of
// a partner configuration.
//
// WORKBOOK STRUCTURE:
//
//   | Column A      | Column B   | Column C        | ... |
//   |---------------|------------|-----------------|-----|
//   | Logical Field | Synonym 1  | Synonym 2       | ... |
//   | poNumber      | Order No   | PO#             |     |
//   | quantity      | Units      |                 |     |
//
//   - Row 1 is a header and is skipped.
//   - Every sheet is read except sheets whose name starts with "_".
//   - A field listed on several rows or sheets accumulates its synonyms in
//     workbook order.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// LAYOUT CONFIGURATION
// =============================================================================

// WorkbookColumns defines where the data sits in a synonym workbook.
// Indices are 0-based (A=0, B=1, ...).
type WorkbookColumns struct {
	// FieldColumn holds the logical field name.
	// Default: 0 (Column A)
	FieldColumn int

	// FirstSynonymColumn is the first column holding a synonym. Every
	// column from here to the end of the row is read.
	// Default: 1 (Column B)
	FirstSynonymColumn int

	// DataStartRow is the first data row (0-based).
	// Default: 1 (Row 2)
	DataStartRow int
}

// DefaultWorkbookColumns returns the default layout.
func DefaultWorkbookColumns() WorkbookColumns {
	return WorkbookColumns{
		FieldColumn:        0, // Column A
		FirstSynonymColumn: 1, // Column B
		DataStartRow:       1, // Row 2
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseColumnWorkbook reads a synonym workbook with the default layout.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//
// RETURNS:
//   - A map of logical field name -> synonyms, in workbook order.
//   - An error if the file cannot be opened or read.
func ParseColumnWorkbook(path string) (map[string][]string, error) {
	return ParseColumnWorkbookWithConfig(path, DefaultWorkbookColumns())
}

// ParseColumnWorkbookWithConfig reads a synonym workbook with a custom layout.
func ParseColumnWorkbookWithConfig(path string, columns WorkbookColumns) (map[string][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open synonym workbook: %w", err)
	}
	defer f.Close()

	synonyms := make(map[string][]string)

	for _, sheetName := range f.GetSheetList() {
		if strings.HasPrefix(sheetName, "_") {
			continue
		}

		if err := parseSheet(f, sheetName, columns, synonyms); err != nil {
			return nil, fmt.Errorf("error parsing sheet '%s': %w", sheetName, err)
		}
	}

	return synonyms, nil
}

// parseSheet adds the synonyms of one sheet to out.
func parseSheet(f *excelize.File, sheetName string, columns WorkbookColumns, out map[string][]string) error {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		field := cell(row, columns.FieldColumn)
		if field == "" {
			continue
		}

		for col := columns.FirstSynonymColumn; col < len(row); col++ {
			if synonym := cell(row, col); synonym != "" {
				out[field] = append(out[field], synonym)
			}
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
