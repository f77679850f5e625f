// Package csvorder decodes the trading partner's flat CSV export into the
// canonical order model. Every data row becomes one line item; order-level
// fields are repeated on each row and taken from the first row that has them.
package csvorder

import (
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/po-decoder/internal/csvparser"
	"github.com/ginjaninja78/po-decoder/internal/normalize"
	"github.com/ginjaninja78/po-decoder/internal/types"
)

// DefaultUnitOfMeasure is used when a row has no unit of measure.
const DefaultUnitOfMeasure = "EA"

// Decoder decodes flat CSV exports using a column set.
type Decoder struct {
	columns csvparser.ColumnSet
	log     logrus.FieldLogger
}

// NewDecoder creates a decoder. A nil column set means DefaultColumns and a
// nil logger discards output.
func NewDecoder(columns csvparser.ColumnSet, log logrus.FieldLogger) *Decoder {
	if columns == nil {
		columns = DefaultColumns()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Decoder{columns: columns, log: log}
}

// Decode decodes raw with the default columns.
func Decode(raw string) (*types.CanonicalOrder, error) {
	return NewDecoder(nil, nil).Decode(raw)
}

// Decode parses raw and assembles the order. Only ErrEmptyInput and
// ErrNoDataRows are returned; every field-level problem degrades to a
// default.
func (d *Decoder) Decode(raw string) (*types.CanonicalOrder, error) {
	data, err := csvparser.ParseText(raw)
	if err != nil {
		return nil, err
	}

	if poNumbers := csvparser.GetUniqueValues(data, d.columns[FieldPONumber]...); len(poNumbers) > 1 {
		d.log.WithField("po_numbers", poNumbers).
			Warn("CSV export holds more than one PO number; all rows are decoded into one order")
	}

	order := types.NewCanonicalOrder(types.FormatFlatCSV, raw)
	d.decodeHeader(order, data.Rows)
	d.decodeParties(order, data.Rows)

	var total float64
	for i, row := range data.Rows {
		item := d.decodeItem(row, i+1)
		total += item.Amount
		order.Items = append(order.Items, item)
	}

	count := len(order.Items)
	order.Totals.LineItemCount = &count
	order.Totals.TotalAmount = &total

	d.log.WithFields(logrus.Fields{
		"po_number": types.Deref(order.Header.PONumber),
		"items":     count,
	}).Debug("Decoded CSV order")

	return order, nil
}

// first resolves a logical field from the first row that has it.
func (d *Decoder) first(rows []csvparser.Record, field string) string {
	for _, row := range rows {
		if v := d.columns.Resolve(row, field); v != "" {
			return v
		}
	}
	return ""
}

func (d *Decoder) decodeHeader(order *types.CanonicalOrder, rows []csvparser.Record) {
	h := &order.Header
	h.PONumber = types.StringPtr(d.first(rows, FieldPONumber))
	h.POID = types.StringPtr(d.first(rows, FieldPOID))
	h.PODate = normalize.Date(d.first(rows, FieldPODate))
	h.POType = types.StringPtr(d.first(rows, FieldPOType))
	h.Currency = types.StringPtr(d.first(rows, FieldCurrency))
	h.VendorName = types.StringPtr(d.first(rows, FieldVendorName))
	h.RetailerName = types.StringPtr(d.first(rows, FieldRetailerName))

	if dept := d.first(rows, FieldDepartment); dept != "" {
		h.References["DP"] = dept
	}

	order.Dates[types.DateOrder] = h.PODate
	order.Dates[types.DateShipNotBefore] = normalize.Date(d.first(rows, FieldShipNotBefore))
	order.Dates[types.DateShipNotAfter] = normalize.Date(d.first(rows, FieldShipNotAfter))
	order.Dates[types.DateCancelAfter] = normalize.Date(d.first(rows, FieldCancelAfter))
	order.Dates[types.DateDeliveryRequested] = normalize.Date(d.first(rows, FieldDeliveryRequested))
}

func (d *Decoder) decodeParties(order *types.CanonicalOrder, rows []csvparser.Record) {
	if p := namedParty(d.first(rows, FieldVendorName), d.first(rows, FieldVendorCode)); p != nil {
		order.Parties[types.RoleVendor] = p
	}
	if p := namedParty(d.first(rows, FieldRetailerName), d.first(rows, FieldRetailerCode)); p != nil {
		order.Parties[types.RoleBuyer] = p
	}

	shipTo := namedParty(d.first(rows, FieldShipToName), d.first(rows, FieldShipToCode))
	if shipTo == nil {
		return
	}
	shipTo.Address1 = types.StringPtr(d.first(rows, FieldShipToAddress1))
	shipTo.Address2 = types.StringPtr(d.first(rows, FieldShipToAddress2))
	shipTo.City = types.StringPtr(d.first(rows, FieldShipToCity))
	shipTo.State = types.StringPtr(d.first(rows, FieldShipToState))
	shipTo.Zip = types.StringPtr(d.first(rows, FieldShipToZip))
	shipTo.Country = types.StringPtr(d.first(rows, FieldShipToCountry))
	order.Parties[types.RoleShipTo] = shipTo
}

// namedParty returns nil when both the name and the id are empty.
func namedParty(name, id string) *types.Party {
	if name == "" && id == "" {
		return nil
	}
	return &types.Party{Name: name, ID: types.StringPtr(id)}
}

func (d *Decoder) decodeItem(row csvparser.Record, position int) types.LineItem {
	resolve := func(field string) string { return d.columns.Resolve(row, field) }

	lineNumber := resolve(FieldLineNumber)
	if lineNumber == "" {
		lineNumber = strconv.Itoa(position)
	}

	item := types.NewLineItem(lineNumber)
	item.QuantityOrdered = normalize.Number(resolve(FieldQuantity))
	item.UnitPrice = normalize.Number(resolve(FieldUnitPrice))
	item.Amount = item.QuantityOrdered * item.UnitPrice
	item.UnitOfMeasure = resolve(FieldUnitOfMeasure)
	if item.UnitOfMeasure == "" {
		item.UnitOfMeasure = DefaultUnitOfMeasure
	}
	item.RetailPrice = normalize.NumberPtr(resolve(FieldRetailPrice))
	item.Color = types.StringPtr(resolve(FieldColor))
	item.Size = types.StringPtr(resolve(FieldSize))

	description := resolve(FieldDescription)
	if description == "" {
		description = resolve(FieldGroupDescription)
	}
	item.Description = types.StringPtr(description)

	vendorItem := resolve(FieldVendorItemNumber)
	buyerItem := resolve(FieldBuyerItemNumber)
	sku := resolve(FieldSKU)
	if sku == "" {
		sku = vendorItem
	}
	if sku == "" {
		sku = buyerItem
	}

	gtin := resolve(FieldGTIN)
	setID(item.ProductIDs, "upc", gtin)
	setID(item.ProductIDs, "gtin", gtin)
	setID(item.ProductIDs, "sku", sku)
	setID(item.ProductIDs, "vendorItemNumber", vendorItem)
	setID(item.ProductIDs, "buyerItemNumber", buyerItem)
	setID(item.ProductIDs, "style", resolve(FieldStyle))

	pack, inner, assortment := resolve(FieldPack), resolve(FieldInnerPack), resolve(FieldAssortmentPack)
	if pack != "" || inner != "" || assortment != "" {
		item.PackInfo = &types.PackInfo{
			Pack:           types.StringPtr(pack),
			InnerPack:      types.StringPtr(inner),
			AssortmentPack: types.StringPtr(assortment),
		}
	}

	return item
}

func setID(ids map[string]string, key, value string) {
	if value != "" {
		ids[key] = value
	}
}
