// =============================================================================
// PO Decoder - Canonical Order Types
// =============================================================================
//
// This package contains the canonical purchase-order model shared by every
// decoder (X12 850, flat partner CSV, simple delimited) and by the packages
// that consume decoded orders:
//   - converter
//   - validation
//   - xmlwriter
//
// SHAPE RULES:
//   - Nullable scalars are pointers and are always serialized, so a field the
//     source format cannot carry shows up as null instead of disappearing.
//   - Every decoder produces exactly this schema. Apart from Format and Raw,
//     a consumer cannot tell which decoder produced an order.
//
// =============================================================================

package types

// =============================================================================
// SOURCE FORMATS
// =============================================================================

// Format identifies the decoding path chosen for a document.
type Format string

const (
	// FormatX12 is an EDI X12 850 purchase order.
	FormatX12 Format = "x12"

	// FormatFlatCSV is the partner's quoted CSV export.
	FormatFlatCSV Format = "csv"

	// FormatSimpleDelimited is the lenient fallback for feeds that are neither.
	FormatSimpleDelimited Format = "delimited"
)

// =============================================================================
// DATE ROLES
// =============================================================================

// Semantic date roles used as keys of CanonicalOrder.Dates.
const (
	DateOrder             = "orderDate"
	DateDeliveryRequested = "deliveryRequested"
	DateRequestedShip     = "requestedShip"
	DateShipNotBefore     = "shipNotBefore"
	DateShipNotAfter      = "shipNotAfter"
	DateDoNotDeliverAfter = "doNotDeliverAfter"
	DateDoNotShipBefore   = "doNotShipBefore"
	DateCancelAfter       = "cancelAfter"
)

// StandardDateRoles lists the roles every decoder seeds, in display order.
var StandardDateRoles = []string{
	DateOrder,
	DateDeliveryRequested,
	DateRequestedShip,
	DateShipNotBefore,
	DateShipNotAfter,
	DateDoNotDeliverAfter,
	DateDoNotShipBefore,
	DateCancelAfter,
}

// NewDates returns a date map with every standard role present and null.
func NewDates() map[string]*string {
	dates := make(map[string]*string, len(StandardDateRoles))
	for _, role := range StandardDateRoles {
		dates[role] = nil
	}
	return dates
}

// =============================================================================
// PARTY ROLES
// =============================================================================

// Party roles used as keys of CanonicalOrder.Parties. Roles that are not
// recognized are stored under their raw qualifier code.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleShipTo = "shipTo"
	RoleBillTo = "billTo"
	RoleVendor = "vendor"
)

// =============================================================================
// CANONICAL ORDER
// =============================================================================

// CanonicalOrder is the single value returned by every decoder.
type CanonicalOrder struct {
	// Format records which decoding path produced the order.
	Format Format `json:"format"`

	Header  Header             `json:"header"`
	Dates   map[string]*string `json:"dates"`
	Parties map[string]*Party  `json:"parties"`
	Items   []LineItem         `json:"items"`
	Totals  Totals             `json:"totals"`

	// Raw is the original source text, kept verbatim.
	Raw string `json:"raw"`
}

// NewCanonicalOrder returns an order with every map initialized and every
// standard date role seeded.
func NewCanonicalOrder(format Format, raw string) *CanonicalOrder {
	return &CanonicalOrder{
		Format:  format,
		Header:  Header{References: map[string]string{}},
		Dates:   NewDates(),
		Parties: map[string]*Party{},
		Items:   []LineItem{},
		Raw:     raw,
	}
}

// Header carries the order-level identifiers.
type Header struct {
	PONumber    *string `json:"poNumber"`
	POID        *string `json:"poId"`
	PODate      *string `json:"poDate"`
	POType      *string `json:"poType"`
	PurposeCode *string `json:"purposeCode"`
	Currency    *string `json:"currency"`

	VendorName   *string `json:"vendorName"`
	RetailerName *string `json:"retailerName"`

	// Envelope identifiers. Only the X12 path can fill these.
	SenderID                 *string `json:"senderId"`
	ReceiverID               *string `json:"receiverId"`
	InterchangeControlNumber *string `json:"interchangeControlNumber"`
	GroupControlNumber       *string `json:"groupControlNumber"`
	TransactionControlNumber *string `json:"transactionControlNumber"`

	// References maps a reference qualifier (e.g. "DP" for department) to its value.
	References map[string]string `json:"references"`
}

// Party is a buyer, seller, ship-to or other named participant.
type Party struct {
	Name           string  `json:"name"`
	IDQualifier    *string `json:"idQualifier"`
	ID             *string `json:"id"`
	AdditionalName *string `json:"additionalName"`
	Address1       *string `json:"address1"`
	Address2       *string `json:"address2"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Zip            *string `json:"zip"`
	Country        *string `json:"country"`
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// LineItem is one product entry of the order, in source order.
type LineItem struct {
	// LineNumber is kept exactly as the source gave it.
	LineNumber string `json:"lineNumber"`

	QuantityOrdered float64 `json:"quantityOrdered"`
	UnitOfMeasure   string  `json:"unitOfMeasure"`
	UnitPrice       float64 `json:"unitPrice"`
	PriceBasis      *string `json:"priceBasis"`

	// Amount is quantity times unit price on the CSV and delimited paths.
	// The X12 path leaves it at zero; see ExtendedAmount.
	Amount float64 `json:"amount"`

	RetailPrice *float64 `json:"retailPrice"`
	Description *string  `json:"description"`
	Color       *string  `json:"color"`
	Size        *string  `json:"size"`

	RequestedDelivery *string `json:"requestedDelivery"`
	RequestedShip     *string `json:"requestedShip"`

	// ProductIDs maps a semantic id kind (upc, sku, gtin, ...) to its value.
	// Unrecognized qualifier codes are kept under the raw code.
	ProductIDs map[string]string `json:"productIds"`

	PackInfo     *PackInfo     `json:"packInfo"`
	Destinations []Destination `json:"destinations"`
	Sublines     []Subline     `json:"sublines"`
}

// NewLineItem returns an item with its collections initialized, so every
// decoder serializes empty collections the same way.
func NewLineItem(lineNumber string) LineItem {
	return LineItem{
		LineNumber:   lineNumber,
		ProductIDs:   map[string]string{},
		Destinations: []Destination{},
		Sublines:     []Subline{},
	}
}

// ExtendedAmount returns Amount when set, otherwise quantity times unit price.
func (li LineItem) ExtendedAmount() float64 {
	if li.Amount != 0 {
		return li.Amount
	}
	return li.QuantityOrdered * li.UnitPrice
}

// PackInfo describes how the item is packed.
type PackInfo struct {
	Pack           *string `json:"pack"`
	InnerPack      *string `json:"innerPack"`
	AssortmentPack *string `json:"assortmentPack"`
}

// Destination is one store/location quantity breakdown of an item.
type Destination struct {
	Qualifier string  `json:"qualifier"`
	ID        string  `json:"id"`
	Quantity  float64 `json:"quantity"`
}

// Subline is a nested breakdown of an item (by size, color, ...).
type Subline struct {
	LineNumber      string            `json:"lineNumber"`
	QuantityOrdered float64           `json:"quantityOrdered"`
	UnitOfMeasure   string            `json:"unitOfMeasure"`
	UnitPrice       float64           `json:"unitPrice"`
	PriceBasis      *string           `json:"priceBasis"`
	ProductIDs      map[string]string `json:"productIds"`
}

// =============================================================================
// TOTALS
// =============================================================================

// Totals carries the control totals of the order.
type Totals struct {
	LineItemCount *int     `json:"lineItemCount"`
	HashTotal     *float64 `json:"hashTotal"`
	TotalAmount   *float64 `json:"totalAmount"`
}

// =============================================================================
// POINTER HELPERS
// =============================================================================

// StringPtr returns nil for an empty string and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
