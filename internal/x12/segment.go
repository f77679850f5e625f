package x12

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

// Segment is one tokenized segment. Index 0 is the segment tag, so an
// element's index matches its X12 position (BEG03 is Element(3)).
type Segment []string

// ID returns the segment tag.
func (s Segment) ID() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Element returns the trimmed element at index i, or "" when the segment is
// shorter.
func (s Segment) Element(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return strings.TrimSpace(s[i])
}

// Document is a tokenized X12 text.
type Document struct {
	Segments         []Segment
	SegmentDelimiter string
	ElementDelimiter string
}

// First returns the first segment with the given tag, or nil.
func (d *Document) First(tag string) Segment {
	for _, seg := range d.Segments {
		if seg.ID() == tag {
			return seg
		}
	}
	return nil
}

// All returns every segment with the given tag, in document order.
func (d *Document) All(tag string) []Segment {
	var out []Segment
	for _, seg := range d.Segments {
		if seg.ID() == tag {
			out = append(out, seg)
		}
	}
	return out
}

// Tokenize splits text into segments and elements. Pieces are trimmed and
// empty pieces dropped. Empty delimiters fall back to "~" and "*".
//
// It fails with types.ErrUnrecoverableStructure when no segment survives.
func Tokenize(text, segmentDelimiter, elementDelimiter string) (*Document, error) {
	if segmentDelimiter == "" {
		segmentDelimiter = defaultSegmentDelimiter
	}
	if elementDelimiter == "" {
		elementDelimiter = defaultElementDelimiter
	}

	pieces := strings.Split(text, segmentDelimiter)
	doc := &Document{
		Segments:         make([]Segment, 0, len(pieces)),
		SegmentDelimiter: segmentDelimiter,
		ElementDelimiter: elementDelimiter,
	}

	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		doc.Segments = append(doc.Segments, Segment(strings.Split(piece, elementDelimiter)))
	}

	if len(doc.Segments) == 0 {
		return nil, types.NewParseError(
			types.ErrUnrecoverableStructure,
			types.FormatX12,
			fmt.Sprintf("no segments found using delimiter %q", segmentDelimiter),
		)
	}
	return doc, nil
}
