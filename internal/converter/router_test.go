package converter

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/po-decoder/internal/csvorder"
	"github.com/ginjaninja78/po-decoder/internal/types"
)

const (
	sampleX12 = "ISA*00*          *00*          *ZZ*SENDER*ZZ*RECEIVER*250101*1200*U*00401*000000001*0*P*>~" +
		"GS*PO*SENDER*RECEIVER*20250101*1200*1*X*004010~ST*850*0001~BEG*00*SA*PO123**20250115~" +
		"N1*BY*ACME CORP~PO1*1*10*EA*5.00**UP*012345~SE*3*0001~"

	sampleCSV = "po_po_num,po_item_po_item_qty_ordered,po_item_po_item_unit_price\nPO999,4,12.50\n"
)

func TestRouterDecodeX12(t *testing.T) {
	order, err := Decode(sampleX12, "po.edi")
	require.NoError(t, err)

	assert.Equal(t, types.FormatX12, order.Format)
	assert.Equal(t, sampleX12, order.Raw)
	assert.Equal(t, "PO123", types.Deref(order.Header.PONumber))
	assert.Equal(t, "2025-01-15", types.Deref(order.Header.PODate))
	require.Contains(t, order.Parties, types.RoleBuyer)
	assert.Equal(t, "ACME CORP", order.Parties[types.RoleBuyer].Name)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "1", item.LineNumber)
	assert.Equal(t, 10.0, item.QuantityOrdered)
	assert.Equal(t, "EA", item.UnitOfMeasure)
	assert.Equal(t, 5.0, item.UnitPrice)
	assert.Equal(t, map[string]string{"upc": "012345"}, item.ProductIDs)
}

func TestRouterDecodeCSV(t *testing.T) {
	order, err := Decode(sampleCSV, "po.csv")
	require.NoError(t, err)

	assert.Equal(t, types.FormatFlatCSV, order.Format)
	assert.Equal(t, "PO999", types.Deref(order.Header.PONumber))
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, 4.0, item.QuantityOrdered)
	assert.Equal(t, 12.5, item.UnitPrice)
	assert.Equal(t, 50.0, item.Amount)
	assert.Equal(t, "EA", item.UnitOfMeasure)
}

func TestRouterDecodeDelimited(t *testing.T) {
	order, err := Decode("ORDER|PO5\nSKU1|Widget|2\n", "po.txt")
	require.NoError(t, err)

	assert.Equal(t, types.FormatSimpleDelimited, order.Format)
	assert.Equal(t, "PO5", types.Deref(order.Header.PONumber))
	assert.Len(t, order.Items, 1)
}

func TestRouterDecodeStripsByteOrderMark(t *testing.T) {
	order, err := Decode("\ufeff"+sampleCSV, "po.csv")
	require.NoError(t, err)

	assert.Equal(t, sampleCSV, order.Raw)
	assert.Equal(t, "PO999", types.Deref(order.Header.PONumber))
}

func TestRouterDecodeStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind error
	}{
		{"empty", "", types.ErrEmptyInput},
		{"blank", "  \r\n\t\n", types.ErrEmptyInput},
		{"bom only", "\ufeff", types.ErrEmptyInput},
		{"csv header only", "po_number,qty\n", types.ErrNoDataRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := Decode(tt.raw, "po.txt")
			assert.Nil(t, order)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))

			var parseErr *types.ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestRouterUsesPartnerColumns(t *testing.T) {
	columns := csvorder.DefaultColumns().WithSynonyms(map[string][]string{
		csvorder.FieldPONumber: {"Order No"},
		csvorder.FieldQuantity: {"Units"},
	})
	router := NewRouter(columns, nil)

	order, err := router.Decode("Order No,Units\nX-1,7\n", "partner.csv")
	require.NoError(t, err)
	assert.Equal(t, "X-1", types.Deref(order.Header.PONumber))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 7.0, order.Items[0].QuantityOrdered)
}

func TestRouterLogsDetection(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := NewRouter(nil, logger).Decode(sampleX12, "po.edi")
	require.NoError(t, err)

	require.NotEmpty(t, hook.Entries)
	first := hook.Entries[0]
	assert.Equal(t, "Detected document format", first.Message)
	assert.Equal(t, "po.edi", first.Data["file"])
	assert.Equal(t, types.FormatX12, first.Data["format"])
}

func TestRouterConcurrentDecode(t *testing.T) {
	router := NewRouter(nil, nil)
	inputs := []string{sampleX12, sampleCSV, sampleX12, sampleCSV}

	var wg sync.WaitGroup
	results := make([]*types.CanonicalOrder, len(inputs))
	for i, raw := range inputs {
		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			order, err := router.Decode(raw, "po")
			if err == nil {
				results[i] = order
			}
		}(i, raw)
	}
	wg.Wait()

	for i := range results {
		require.NotNil(t, results[i])
	}
	assert.Equal(t, results[0], results[2])
	assert.Equal(t, results[1], results[3])
	assert.NotSame(t, results[0], results[2])
}

// jsonKeys returns the sorted keys of a JSON object.
func jsonKeys(t *testing.T, value interface{}) []string {
	t.Helper()
	object, ok := value.(map[string]interface{})
	require.True(t, ok, "expected a JSON object, got %T", value)

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func asJSON(t *testing.T, order *types.CanonicalOrder) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(order)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSchemaParityAcrossFormats(t *testing.T) {
	x12Order, err := Decode(sampleX12, "po.edi")
	require.NoError(t, err)
	csvOrder, err := Decode(
		"po_number,retailer_name,po_item_po_item_qty_ordered,po_item_po_item_unit_price\nPO999,ACME CORP,4,12.50\n",
		"po.csv",
	)
	require.NoError(t, err)
	delimitedOrder, err := Decode("ORDER|PO5\nSKU1|Widget|2\n", "po.txt")
	require.NoError(t, err)

	x12JSON := asJSON(t, x12Order)
	for name, other := range map[string]map[string]interface{}{
		"csv":       asJSON(t, csvOrder),
		"delimited": asJSON(t, delimitedOrder),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, jsonKeys(t, x12JSON), jsonKeys(t, other))
			assert.Equal(t, jsonKeys(t, x12JSON["header"]), jsonKeys(t, other["header"]))
			assert.Equal(t, jsonKeys(t, x12JSON["dates"]), jsonKeys(t, other["dates"]))
			assert.Equal(t, jsonKeys(t, x12JSON["totals"]), jsonKeys(t, other["totals"]))

			x12Items := x12JSON["items"].([]interface{})
			otherItems := other["items"].([]interface{})
			require.NotEmpty(t, otherItems)
			assert.Equal(t, jsonKeys(t, x12Items[0]), jsonKeys(t, otherItems[0]))
		})
	}

	csvParties := asJSON(t, csvOrder)["parties"].(map[string]interface{})
	x12Parties := x12JSON["parties"].(map[string]interface{})
	assert.Equal(t, jsonKeys(t, x12Parties["buyer"]), jsonKeys(t, csvParties["buyer"]))
}
