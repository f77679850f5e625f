package csvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordFirst(t *testing.T) {
	rec := Record{
		"po_po_num":   "PO999",
		"po.vendor":   "",
		"vendor_name": "ACME",
		"item.qty":    "4",
		"item_qty":    "5",
	}

	assert.Equal(t, "PO999", rec.First("po.po_num"), "dot candidate matches underscore header")
	assert.Equal(t, "ACME", rec.First("po.vendor", "vendor_name"), "empty values are skipped")
	assert.Equal(t, "4", rec.First("item.qty"), "literal name wins over the underscore variant")
	assert.Equal(t, "", rec.First("missing", "also.missing"))
	assert.Equal(t, "", rec.First())
}

func TestColumnSetWithSynonyms(t *testing.T) {
	base := ColumnSet{
		"poNumber": {"po.po_num", "po_number"},
		"quantity": {"qty"},
	}

	merged := base.WithSynonyms(map[string][]string{
		"poNumber": {"Order No", "po_number"},
		"color":    {"Colour"},
	})

	assert.Equal(t, []string{"Order No", "po_number", "po.po_num"}, merged["poNumber"])
	assert.Equal(t, []string{"qty"}, merged["quantity"])
	assert.Equal(t, []string{"Colour"}, merged["color"])
	assert.Equal(t, []string{"po.po_num", "po_number"}, base["poNumber"], "base set is not modified")
	assert.Equal(t, []string{"color", "poNumber", "quantity"}, merged.Fields())

	rec := Record{"Order No": "X1", "po_po_num": "Y2"}
	assert.Equal(t, "X1", merged.Resolve(rec, "poNumber"))
	assert.Equal(t, "Y2", base.Resolve(rec, "poNumber"))
}
