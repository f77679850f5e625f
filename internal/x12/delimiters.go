// Package x12 tokenizes X12 interchanges and decodes 850 purchase orders
// into the canonical order model.
package x12

import "strings"

const (
	isaSegmentID = "ISA"

	// The ISA segment is fixed width: 106 bytes including its terminator.
	isaByteCount                = 106
	isaElementSeparatorIndex    = 3
	isaSegmentTerminatorIndex   = isaByteCount - 1
	defaultSegmentDelimiter     = "~"
	defaultElementDelimiter     = "*"
	envelopeTrailerSegmentID    = "IEA"
	transactionHeaderSegmentID  = "ST"
	purchaseOrderTransactionSet = "850"
)

// markerTags are segment tags whose presence marks a document as X12.
var markerTags = []string{isaSegmentID, "BEG", "PO1", envelopeTrailerSegmentID}

// SegmentDelimiter picks the segment terminator: "~" when present, else a
// newline, else the fixed ISA terminator position, else "~".
func SegmentDelimiter(text string) string {
	switch {
	case strings.Contains(text, defaultSegmentDelimiter):
		return defaultSegmentDelimiter
	case strings.Contains(text, "\n"):
		return "\n"
	case strings.HasPrefix(text, isaSegmentID) && len(text) >= isaByteCount:
		return text[isaSegmentTerminatorIndex : isaSegmentTerminatorIndex+1]
	}
	return defaultSegmentDelimiter
}

// ElementDelimiter returns the character after "ISA" when the text starts
// with an ISA segment, else "*".
func ElementDelimiter(text string) string {
	if strings.HasPrefix(text, isaSegmentID) && len(text) > isaElementSeparatorIndex {
		return text[isaElementSeparatorIndex : isaElementSeparatorIndex+1]
	}
	return defaultElementDelimiter
}

// HasMarkers reports whether the text looks like an X12 document: it opens
// an interchange envelope, or one of the ISA, BEG, PO1 or IEA tags, or an
// ST*850 transaction header, starts a segment.
//
// A tag only counts at the start of the text or right after a segment
// terminator or line break, and must be followed by a non-alphanumeric
// separator, so CSV text that merely contains "ISA" in a name does not match.
func HasMarkers(text string) bool {
	if strings.HasPrefix(text, isaSegmentID) {
		return true
	}
	for _, tag := range markerTags {
		if startsSegment(text, tag) {
			return true
		}
	}
	for i := 0; i+len(transactionHeaderSegmentID)+4 <= len(text); i++ {
		if startsSegmentAt(text, i, transactionHeaderSegmentID) &&
			text[i+len(transactionHeaderSegmentID)+1:i+len(transactionHeaderSegmentID)+4] == purchaseOrderTransactionSet {
			return true
		}
	}
	return false
}

func startsSegment(text, tag string) bool {
	for i := strings.Index(text, tag); i >= 0; {
		if startsSegmentAt(text, i, tag) {
			return true
		}
		next := strings.Index(text[i+1:], tag)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return false
}

// startsSegmentAt reports whether tag sits at position i as a segment tag.
func startsSegmentAt(text string, i int, tag string) bool {
	if !strings.HasPrefix(text[i:], tag) {
		return false
	}
	if i > 0 {
		switch text[i-1] {
		case '~', '\n', '\r':
		default:
			return false
		}
	}
	end := i + len(tag)
	if end >= len(text) {
		return false
	}
	c := text[end]
	return !isAlphaNumeric(c) && c != ' ' && c != '\t' && c != ',' && c != '"'
}

func isAlphaNumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
