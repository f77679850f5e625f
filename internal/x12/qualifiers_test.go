package x12

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

func TestDateRole(t *testing.T) {
	for code, want := range map[string]string{
		"002": types.DateDeliveryRequested,
		"010": types.DateRequestedShip,
		"037": types.DateShipNotBefore,
		"038": types.DateShipNotAfter,
		"063": types.DateDoNotDeliverAfter,
		"064": types.DateDoNotShipBefore,
		"001": types.DateCancelAfter,
	} {
		role, ok := DateRole(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, role, code)
	}

	role, ok := DateRole("996")
	assert.False(t, ok)
	assert.Equal(t, "qualifier_996", role)
}

func TestPartyRole(t *testing.T) {
	assert.Equal(t, types.RoleBuyer, PartyRole("BY"))
	assert.Equal(t, types.RoleSeller, PartyRole("SE"))
	assert.Equal(t, types.RoleShipTo, PartyRole("ST"))
	assert.Equal(t, types.RoleBillTo, PartyRole("BT"))
	assert.Equal(t, types.RoleVendor, PartyRole("VN"))
	assert.Equal(t, "Z7", PartyRole("Z7"))
}

func TestProductIDKey(t *testing.T) {
	assert.Equal(t, "upc", ProductIDKey("UP"))
	assert.Equal(t, "gtin", ProductIDKey("UK"))
	assert.Equal(t, "style", ProductIDKey("ST"))
	assert.Equal(t, "XY", ProductIDKey("XY"))
}

func TestProductIDs(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		want := map[string]string{"upc": "012345", "vendorItemNumber": "99Z"}
		a := Segment{"PO1", "1", "10", "EA", "5.00", "", "UP", "012345", "VN", "99Z"}
		b := Segment{"PO1", "1", "10", "EA", "5.00", "", "VN", "99Z", "UP", "012345"}
		assert.Equal(t, want, productIDs(a, po1ProductIDStart))
		assert.Equal(t, want, productIDs(b, po1ProductIDStart))
	})

	t.Run("skips half-empty pairs and keeps unknown codes", func(t *testing.T) {
		seg := Segment{"PO1", "1", "1", "EA", "1", "", "UP", "", "", "X", "ZZ", "abc", "SK"}
		assert.Equal(t, map[string]string{"ZZ": "abc"}, productIDs(seg, po1ProductIDStart))
	})
}
