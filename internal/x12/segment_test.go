package x12

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

func TestTokenize(t *testing.T) {
	doc, err := Tokenize("ST*850*0001~\n BEG*00*SA*PO123**20250115 ~~REF*DP*042~REF*IA*V1~", "~", "*")
	require.NoError(t, err)

	require.Len(t, doc.Segments, 4)
	assert.Equal(t, Segment{"BEG", "00", "SA", "PO123", "", "20250115"}, doc.Segments[1])
	assert.Equal(t, "PO123", doc.First("BEG").Element(3))
	assert.Len(t, doc.All("REF"), 2)
	assert.Nil(t, doc.First("CTT"))
	assert.Empty(t, doc.All("CTT"))
}

func TestTokenizeDefaultsDelimiters(t *testing.T) {
	doc, err := Tokenize("BEG*00~PO1*1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "~", doc.SegmentDelimiter)
	assert.Equal(t, "*", doc.ElementDelimiter)
	assert.Len(t, doc.Segments, 2)
}

func TestTokenizeNoSegments(t *testing.T) {
	_, err := Tokenize(" ~ ~\n~", "~", "*")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnrecoverableStructure))

	var perr *types.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, types.FormatX12, perr.Format)
}

func TestSegmentElement(t *testing.T) {
	seg := Segment{"N1", "BY", " ACME CORP "}
	assert.Equal(t, "N1", seg.ID())
	assert.Equal(t, "ACME CORP", seg.Element(2))
	assert.Equal(t, "", seg.Element(9))
	assert.Equal(t, "", seg.Element(-1))

	var empty Segment
	assert.Equal(t, "", empty.ID())
}
