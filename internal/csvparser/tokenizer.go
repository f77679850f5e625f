package csvparser

import "strings"

// =============================================================================
// QUOTE-AWARE TOKENIZER
// =============================================================================
// The partner export quotes fields that contain commas (company names such as
// `FRED MEYER, INC.`) and escapes a literal quote by doubling it. A quoted
// field may also carry embedded newlines.

// SplitLine splits one comma-delimited line into fields.
func SplitLine(line string) []string {
	return SplitLineWith(line, ',')
}

// SplitLineWith splits one line into fields on the given delimiter.
//
// RULES:
//   - The delimiter only ends a field outside quotes.
//   - A `"` toggles quoting, except `""` inside quotes, which yields one
//     literal quote and consumes both characters.
//   - The last field is emitted even without a trailing delimiter, so an
//     empty line yields one empty field.
//
// Values are returned exactly as written; callers trim.
func SplitLineWith(line string, delim rune) []string {
	var (
		fields  []string
		current strings.Builder
		inQuote bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuote && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuote = !inQuote
		case r == delim && !inQuote:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

// SplitRecords splits document text into non-blank logical lines.
//
// A line break inside an open quoted field does not end the record, so a
// quoted value with an embedded newline stays on one logical line. Carriage
// returns before a line break are dropped. When the document ends inside an
// open quote the quoting is unbalanced and the text is split on plain line
// breaks instead.
func SplitRecords(text string) []string {
	var (
		records []string
		current strings.Builder
		inQuote bool
	)

	flush := func() {
		record := strings.TrimSuffix(current.String(), "\r")
		if strings.TrimSpace(record) != "" {
			records = append(records, record)
		}
		current.Reset()
	}

	for _, r := range text {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case r == '\n' && !inQuote:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if inQuote {
		return splitPlainLines(text)
	}
	flush()
	return records
}

func splitPlainLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
