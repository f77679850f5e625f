package x12

import (
	"github.com/ginjaninja78/po-decoder/internal/normalize"
	"github.com/ginjaninja78/po-decoder/internal/types"
)

// Element positions used by the 850 decoder.
const (
	po1ProductIDStart = 6
	slnProductIDStart = 9
	sdqPairStart      = 3

	retailPriceClass     = "RES"
	totalAmountQualifier = "TT"
)

// Decode tokenizes raw with sniffed delimiters and decodes it as an 850.
func Decode(raw string) (*types.CanonicalOrder, error) {
	doc, err := Tokenize(raw, SegmentDelimiter(raw), ElementDelimiter(raw))
	if err != nil {
		return nil, err
	}
	return Decode850(doc, raw), nil
}

// fold is the state threaded through the single forward scan of an 850.
// It never outlives one Decode850 call.
type fold struct {
	order *types.CanonicalOrder

	party *types.Party
	item  *types.LineItem

	inItems     bool
	afterTotals bool

	totalAmount   *float64
	totalAmountTT bool
}

// Decode850 walks the segments of an 850 purchase order once, in order.
//
// Field-level problems never fail the decode: missing segments leave fields
// null, bad numbers become 0 and unknown qualifiers are kept under their raw
// code.
func Decode850(doc *Document, raw string) *types.CanonicalOrder {
	f := &fold{order: types.NewCanonicalOrder(types.FormatX12, raw)}

	for _, seg := range doc.Segments {
		f.apply(seg)
	}
	f.flushItem()

	f.order.Totals.TotalAmount = f.totalAmount
	f.deriveHeaderNames()
	return f.order
}

func (f *fold) apply(seg Segment) {
	switch seg.ID() {
	case "ISA":
		f.order.Header.SenderID = types.StringPtr(seg.Element(6))
		f.order.Header.ReceiverID = types.StringPtr(seg.Element(8))
		f.order.Header.InterchangeControlNumber = types.StringPtr(seg.Element(13))
	case "GS":
		f.order.Header.GroupControlNumber = types.StringPtr(seg.Element(6))
	case "ST":
		f.order.Header.TransactionControlNumber = types.StringPtr(seg.Element(2))
	case "BEG":
		f.beg(seg)
	case "CUR":
		f.order.Header.Currency = types.StringPtr(seg.Element(2))
	case "REF":
		f.ref(seg)
	case "DTM":
		f.dtm(seg)
	case "N1":
		f.n1(seg)
	case "N2":
		if f.party != nil {
			f.party.AdditionalName = types.StringPtr(seg.Element(1))
		}
	case "N3":
		if f.party != nil {
			f.party.Address1 = types.StringPtr(seg.Element(1))
			f.party.Address2 = types.StringPtr(seg.Element(2))
		}
	case "N4":
		if f.party != nil {
			f.party.City = types.StringPtr(seg.Element(1))
			f.party.State = types.StringPtr(seg.Element(2))
			f.party.Zip = types.StringPtr(seg.Element(3))
			f.party.Country = types.StringPtr(seg.Element(4))
		}
	case "PO1":
		f.po1(seg)
	case "PID":
		f.pid(seg)
	case "PO4":
		f.po4(seg)
	case "CTP":
		if f.item != nil && seg.Element(2) == retailPriceClass {
			f.item.RetailPrice = normalize.NumberPtr(seg.Element(3))
		}
	case "SDQ":
		f.sdq(seg)
	case "SLN":
		f.sln(seg)
	case "CTT":
		f.afterTotals = true
		if v := seg.Element(1); v != "" {
			n := normalize.Int(v)
			f.order.Totals.LineItemCount = &n
		}
		if v := seg.Element(2); v != "" {
			n := normalize.Number(v)
			f.order.Totals.HashTotal = &n
		}
	case "AMT":
		f.amt(seg)
	}
}

// =============================================================================
// HEADER
// =============================================================================

func (f *fold) beg(seg Segment) {
	h := &f.order.Header
	h.PurposeCode = types.StringPtr(seg.Element(1))
	h.POType = types.StringPtr(seg.Element(2))
	h.PONumber = types.StringPtr(seg.Element(3))
	h.PODate = normalize.X12Date(seg.Element(5))
	f.order.Dates[types.DateOrder] = h.PODate
}

// ref records header-level references. REF segments inside the item loop
// are ignored.
func (f *fold) ref(seg Segment) {
	if f.inItems {
		return
	}
	qualifier := seg.Element(1)
	value := seg.Element(2)
	if value == "" {
		value = seg.Element(3)
	}
	if qualifier == "" || value == "" {
		return
	}
	f.order.Header.References[qualifier] = value
}

func (f *fold) dtm(seg Segment) {
	qualifier := seg.Element(1)
	date := normalize.X12Date(seg.Element(2))

	if f.inItems {
		if f.item == nil || f.afterTotals {
			return
		}
		switch itemDateRoles[qualifier] {
		case types.DateDeliveryRequested:
			f.item.RequestedDelivery = date
		case types.DateRequestedShip:
			f.item.RequestedShip = date
		}
		return
	}

	if qualifier == "" {
		return
	}
	role, _ := DateRole(qualifier)
	f.order.Dates[role] = date
}

// =============================================================================
// PARTIES
// =============================================================================

// n1 starts a new party and makes it current. Address segments that follow
// attach to this party until the next N1.
func (f *fold) n1(seg Segment) {
	party := &types.Party{
		Name:        seg.Element(2),
		IDQualifier: types.StringPtr(seg.Element(3)),
		ID:          types.StringPtr(seg.Element(4)),
	}
	f.order.Parties[PartyRole(seg.Element(1))] = party
	f.party = party
}

func (f *fold) deriveHeaderNames() {
	h := &f.order.Header
	if vendor := partyName(f.order.Parties, types.RoleVendor, types.RoleSeller); vendor != "" {
		h.VendorName = &vendor
	}
	if retailer := partyName(f.order.Parties, types.RoleBuyer); retailer != "" {
		h.RetailerName = &retailer
	}
}

func partyName(parties map[string]*types.Party, roles ...string) string {
	for _, role := range roles {
		if p, ok := parties[role]; ok && p.Name != "" {
			return p.Name
		}
	}
	return ""
}

// =============================================================================
// LINE ITEMS
// =============================================================================

func (f *fold) po1(seg Segment) {
	f.flushItem()
	f.inItems = true

	item := types.NewLineItem(seg.Element(1))
	item.QuantityOrdered = normalize.Number(seg.Element(2))
	item.UnitOfMeasure = seg.Element(3)
	item.UnitPrice = normalize.Number(seg.Element(4))
	item.PriceBasis = types.StringPtr(seg.Element(5))
	item.ProductIDs = productIDs(seg, po1ProductIDStart)
	f.item = &item
}

// flushItem appends the current item, if any, to the order.
func (f *fold) flushItem() {
	if f.item == nil {
		return
	}
	item := *f.item
	if item.Color == nil {
		item.Color = types.StringPtr(item.ProductIDs["color"])
	}
	if item.Size == nil {
		item.Size = types.StringPtr(item.ProductIDs["size"])
	}
	f.order.Items = append(f.order.Items, item)
	f.item = nil
}

func (f *fold) pid(seg Segment) {
	if f.item == nil {
		return
	}
	text := seg.Element(5)
	if text == "" {
		text = seg.Element(4)
	}
	if text == "" {
		return
	}

	characteristic := seg.Element(2)
	switch {
	case colorCharacteristics[characteristic]:
		f.item.Color = &text
	case sizeCharacteristics[characteristic]:
		f.item.Size = &text
	default:
		f.item.Description = &text
	}
}

func (f *fold) po4(seg Segment) {
	if f.item == nil {
		return
	}
	pack, inner := seg.Element(1), seg.Element(14)
	if pack == "" && inner == "" {
		return
	}
	f.item.PackInfo = &types.PackInfo{
		Pack:      types.StringPtr(pack),
		InnerPack: types.StringPtr(inner),
	}
}

// sdq appends one destination per (location id, quantity) pair.
func (f *fold) sdq(seg Segment) {
	if f.item == nil {
		return
	}
	qualifier := seg.Element(2)
	for i := sdqPairStart; i < len(seg); i += 2 {
		id := seg.Element(i)
		if id == "" {
			continue
		}
		f.item.Destinations = append(f.item.Destinations, types.Destination{
			Qualifier: qualifier,
			ID:        id,
			Quantity:  normalize.Number(seg.Element(i + 1)),
		})
	}
}

func (f *fold) sln(seg Segment) {
	if f.item == nil {
		return
	}
	f.item.Sublines = append(f.item.Sublines, types.Subline{
		LineNumber:      seg.Element(1),
		QuantityOrdered: normalize.Number(seg.Element(4)),
		UnitOfMeasure:   seg.Element(5),
		UnitPrice:       normalize.Number(seg.Element(6)),
		PriceBasis:      types.StringPtr(seg.Element(7)),
		ProductIDs:      productIDs(seg, slnProductIDStart),
	})
}

// =============================================================================
// TOTALS
// =============================================================================

// amt keeps the TT (total transaction amount) qualifier when present,
// otherwise the first AMT outside a line item.
func (f *fold) amt(seg Segment) {
	if f.totalAmountTT {
		return
	}
	amount := normalize.Number(seg.Element(2))
	if seg.Element(1) == totalAmountQualifier {
		f.totalAmount = &amount
		f.totalAmountTT = true
		return
	}
	if f.totalAmount == nil && (!f.inItems || f.afterTotals) {
		f.totalAmount = &amount
	}
}
