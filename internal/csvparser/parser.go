// =============================================================================
// PO Decoder - CSV Parser Module
// =============================================================================
//
// This module turns the text of a trading partner's flat CSV export into
// header names and named records. It handles:
//   - Quoted fields with embedded commas, newlines and doubled quotes
//   - Blank lines anywhere in the document
//   - Short rows (missing trailing fields become "")
//   - Both `table.column` and `table_column` header styles (see Record.First)
//
// The parser works on text already decoded from bytes; reading files and
// legacy encodings are handled by the caller.
//
// =============================================================================

package csvparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed CSV document.
type CSVData struct {
	// Headers contains the trimmed column headers, in file order.
	Headers []string

	// Rows contains the data rows as header -> value records.
	Rows []Record

	// RawRows contains the untrimmed tokenized data rows.
	// This is useful for debugging and error reporting.
	RawRows [][]string

	// RowCount is the number of data rows (excluding the header).
	RowCount int

	// ColumnCount is the number of header columns.
	ColumnCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseText parses CSV document text.
//
// PARAMETERS:
//   - text: The full document text.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - types.ErrEmptyInput when the text has no non-blank lines, or
//     types.ErrNoDataRows when it only has a header line. Both are wrapped
//     in a *types.ParseError.
//
// PARSING PROCESS:
//  1. Split the text into non-blank logical lines
//  2. Tokenize the first line as the header
//  3. Tokenize each remaining line and zip it against the header by position
func ParseText(text string) (*CSVData, error) {
	lines := SplitRecords(text)

	switch len(lines) {
	case 0:
		return nil, types.NewParseError(types.ErrEmptyInput, types.FormatFlatCSV, "no non-blank lines")
	case 1:
		return nil, types.NewParseError(types.ErrNoDataRows, types.FormatFlatCSV, "header line only")
	}

	headers := cleanHeaders(SplitLine(lines[0]))

	data := &CSVData{
		Headers:     headers,
		Rows:        make([]Record, 0, len(lines)-1),
		RawRows:     make([][]string, 0, len(lines)-1),
		ColumnCount: len(headers),
	}

	for _, line := range lines[1:] {
		fields := SplitLine(line)
		data.RawRows = append(data.RawRows, fields)
		data.Rows = append(data.Rows, zipRecord(headers, fields))
	}
	data.RowCount = len(data.Rows)

	return data, nil
}

// cleanHeaders trims header names. Empty headers get a positional
// placeholder name so their values are still addressable.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// zipRecord pairs fields with headers by position. When a header repeats,
// the first non-empty value wins. Fields beyond the header count are ignored.
func zipRecord(headers, fields []string) Record {
	record := make(Record, len(headers))

	for i, header := range headers {
		value := ""
		if i < len(fields) {
			value = strings.TrimSpace(fields[i])
		}
		if existing, ok := record[header]; ok && existing != "" {
			continue
		}
		record[header] = value
	}

	return record
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GetUniqueValues returns the distinct non-empty values of a logical field,
// in first-seen order.
//
// PARAMETERS:
//   - data: The parsed CSV data.
//   - candidates: The candidate column names for the field.
//
// RETURNS:
//   - A slice of unique values for that field.
func GetUniqueValues(data *CSVData, candidates ...string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, row := range data.Rows {
		value := row.First(candidates...)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
	}

	return unique
}
