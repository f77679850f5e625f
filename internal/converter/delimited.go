package converter

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/po-decoder/internal/csvorder"
	"github.com/ginjaninja78/po-decoder/internal/csvparser"
	"github.com/ginjaninja78/po-decoder/internal/normalize"
	"github.com/ginjaninja78/po-decoder/internal/types"
)

// delimiterPreference is the order in which per-line delimiters are tried.
var delimiterPreference = []rune{'|', '\t', ','}

// decodeDelimited is the best-effort path for feeds that are neither X12
// nor a CSV export with a header.
//
// Each line is split on the first delimiter it contains. A line whose first
// field mentions PO or ORDER is a header line (PO number, then PO date). A
// line with three or more fields ending in a number is an item line (sku,
// description, ..., unit price, quantity). Anything else is skipped.
func decodeDelimited(raw string) *types.CanonicalOrder {
	order := types.NewCanonicalOrder(types.FormatSimpleDelimited, raw)

	var total float64
	for _, line := range csvparser.SplitRecords(raw) {
		fields := splitDelimited(line)
		if len(fields) == 0 {
			continue
		}

		first := strings.ToUpper(fields[0])
		switch {
		case strings.Contains(first, "PO") || strings.Contains(first, "ORDER"):
			applyDelimitedHeader(order, fields)
		case len(fields) >= 3 && normalize.IsNumeric(fields[len(fields)-1]):
			item := delimitedItem(fields, len(order.Items)+1)
			total += item.Amount
			order.Items = append(order.Items, item)
		}
	}

	count := len(order.Items)
	order.Totals.LineItemCount = &count
	order.Totals.TotalAmount = &total

	return order
}

func splitDelimited(line string) []string {
	fields := []string{line}
	for _, delim := range delimiterPreference {
		if strings.ContainsRune(line, delim) {
			fields = csvparser.SplitLineWith(line, delim)
			break
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// applyDelimitedHeader fills header fields the order does not have yet.
func applyDelimitedHeader(order *types.CanonicalOrder, fields []string) {
	if order.Header.PONumber == nil && len(fields) > 1 {
		order.Header.PONumber = types.StringPtr(fields[1])
	}
	if order.Header.PODate == nil && len(fields) > 2 {
		order.Header.PODate = normalize.Date(fields[2])
		order.Dates[types.DateOrder] = order.Header.PODate
	}
}

func delimitedItem(fields []string, position int) types.LineItem {
	last := len(fields) - 1

	item := types.NewLineItem(strconv.Itoa(position))
	if fields[0] != "" {
		item.ProductIDs["sku"] = fields[0]
	}
	item.Description = types.StringPtr(fields[1])
	item.QuantityOrdered = normalize.Number(fields[last])
	item.UnitOfMeasure = csvorder.DefaultUnitOfMeasure
	if len(fields) >= 4 && normalize.IsNumeric(fields[last-1]) {
		item.UnitPrice = normalize.Number(fields[last-1])
	}
	item.Amount = item.QuantityOrdered * item.UnitPrice

	return item
}
