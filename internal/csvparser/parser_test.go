package csvparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

func TestParseText(t *testing.T) {
	text := "\ufeffpo_po_num, qty ,,desc\nPO1,4,x,\"Widget, large\"\nPO1,2\n"

	data, err := ParseText(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"po_po_num", "qty", "Column_3", "desc"}, data.Headers)
	assert.Equal(t, 2, data.RowCount)
	assert.Equal(t, 4, data.ColumnCount)

	assert.Equal(t, "Widget, large", data.Rows[0]["desc"])
	assert.Equal(t, "x", data.Rows[0]["Column_3"])
	assert.Equal(t, "2", data.Rows[1]["qty"])
	assert.Equal(t, "", data.Rows[1]["desc"], "missing trailing fields become empty")
	assert.Len(t, data.RawRows[1], 2)
}

func TestParseTextStructuralErrors(t *testing.T) {
	_, err := ParseText("  \n\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrEmptyInput))

	_, err = ParseText("a,b,c\n\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNoDataRows))

	var perr *types.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, types.FormatFlatCSV, perr.Format)
}

func TestZipRecordDuplicateHeaders(t *testing.T) {
	rec := zipRecord([]string{"sku", "sku"}, []string{"", "B2"})
	assert.Equal(t, "B2", rec["sku"])

	rec = zipRecord([]string{"sku", "sku"}, []string{"A1", "B2"})
	assert.Equal(t, "A1", rec["sku"])
}

func TestGetUniqueValues(t *testing.T) {
	data, err := ParseText("po.po_num\nPO1\nPO2\n\nPO1\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"PO1", "PO2"}, GetUniqueValues(data, "po.po_num"))
}
