package converter

import (
	"strings"

	"github.com/ginjaninja78/po-decoder/internal/csvparser"
	"github.com/ginjaninja78/po-decoder/internal/types"
	"github.com/ginjaninja78/po-decoder/internal/x12"
)

const utf8BOM = "\ufeff"

// Detection is the outcome of sniffing a document. The delimiters are only
// set for FormatX12.
type Detection struct {
	Format           types.Format
	SegmentDelimiter string
	ElementDelimiter string
}

// Detect chooses the decoding path for text.
//
// RULES (in order):
//  1. X12 when the text carries envelope or segment markers. Delimiters are
//     sniffed from the text.
//  2. FlatCSV when the first line splits into more than one CSV field.
//  3. SimpleDelimited otherwise.
//
// A leading UTF-8 byte order mark is ignored.
func Detect(text string) Detection {
	text = strings.TrimPrefix(text, utf8BOM)

	if x12.HasMarkers(text) {
		return Detection{
			Format:           types.FormatX12,
			SegmentDelimiter: x12.SegmentDelimiter(text),
			ElementDelimiter: x12.ElementDelimiter(text),
		}
	}

	if lines := csvparser.SplitRecords(text); len(lines) > 0 {
		if len(csvparser.SplitLine(lines[0])) > 1 {
			return Detection{Format: types.FormatFlatCSV}
		}
	}

	return Detection{Format: types.FormatSimpleDelimited}
}
