package x12

import "github.com/ginjaninja78/po-decoder/internal/types"

// Qualifier tables. They are read-only after package initialization.

// dateRoles maps DTM01 date/time qualifiers to order date roles.
var dateRoles = map[string]string{
	"002": types.DateDeliveryRequested,
	"010": types.DateRequestedShip,
	"037": types.DateShipNotBefore,
	"038": types.DateShipNotAfter,
	"063": types.DateDoNotDeliverAfter,
	"064": types.DateDoNotShipBefore,
	"001": types.DateCancelAfter,
}

// itemDateRoles are the DTM01 qualifiers honoured inside a PO1 loop.
var itemDateRoles = map[string]string{
	"002": types.DateDeliveryRequested,
	"010": types.DateRequestedShip,
}

// partyRoles maps N101 entity identifier codes to party roles.
var partyRoles = map[string]string{
	"BY": types.RoleBuyer,
	"SE": types.RoleSeller,
	"ST": types.RoleShipTo,
	"BT": types.RoleBillTo,
	"VN": types.RoleVendor,
}

// productIDKeys maps product/service ID qualifiers (PO106, SLN09, ...) to
// product id kinds.
var productIDKeys = map[string]string{
	"UP": "upc",
	"SK": "sku",
	"BP": "buyerPartNumber",
	"VP": "vendorPartNumber",
	"IN": "buyerItemNumber",
	"VN": "vendorItemNumber",
	"MG": "manufacturerPartNumber",
	"UA": "upcCaseCode",
	"UK": "gtin",
	"EN": "ean",
	"IZ": "buyerSize",
	"CB": "buyerColor",
	"CL": "color",
	"SZ": "size",
	"ST": "style",
}

// PID02 product characteristic codes that carry a color or size instead of
// a description.
var (
	colorCharacteristics = map[string]bool{"73": true, "75": true}
	sizeCharacteristics  = map[string]bool{"74": true, "91": true}
)

// DateFallbackPrefix prefixes unrecognized DTM qualifiers in Dates.
const DateFallbackPrefix = "qualifier_"

// DateRole returns the date role for a document-level DTM qualifier. An
// unrecognized qualifier yields its fallback key and false.
func DateRole(qualifier string) (string, bool) {
	if role, ok := dateRoles[qualifier]; ok {
		return role, true
	}
	return DateFallbackPrefix + qualifier, false
}

// PartyRole returns the party role for an N101 code, or the code itself.
func PartyRole(code string) string {
	if role, ok := partyRoles[code]; ok {
		return role
	}
	return code
}

// ProductIDKey returns the product id kind for a qualifier, or the
// qualifier itself.
func ProductIDKey(qualifier string) string {
	if key, ok := productIDKeys[qualifier]; ok {
		return key
	}
	return qualifier
}

// productIDs walks seg from index start as (qualifier, value) pairs. Pairs
// with an empty half are skipped.
func productIDs(seg Segment, start int) map[string]string {
	ids := map[string]string{}
	for i := start; i+1 < len(seg); i += 2 {
		qualifier, value := seg.Element(i), seg.Element(i+1)
		if qualifier == "" || value == "" {
			continue
		}
		ids[ProductIDKey(qualifier)] = value
	}
	return ids
}
