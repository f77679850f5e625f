package csvorder

import "github.com/ginjaninja78/po-decoder/internal/csvparser"

// Logical fields resolved from the partner export.
const (
	FieldPONumber          = "poNumber"
	FieldPOID              = "poId"
	FieldPODate            = "poDate"
	FieldPOType            = "poType"
	FieldCurrency          = "currency"
	FieldDepartment        = "department"
	FieldShipNotBefore     = "shipNotBefore"
	FieldShipNotAfter      = "shipNotAfter"
	FieldCancelAfter       = "cancelAfter"
	FieldDeliveryRequested = "deliveryRequested"

	FieldVendorName   = "vendorName"
	FieldVendorCode   = "vendorCode"
	FieldRetailerName = "retailerName"
	FieldRetailerCode = "retailerCode"

	FieldShipToName     = "shipToName"
	FieldShipToCode     = "shipToCode"
	FieldShipToAddress1 = "shipToAddress1"
	FieldShipToAddress2 = "shipToAddress2"
	FieldShipToCity     = "shipToCity"
	FieldShipToState    = "shipToState"
	FieldShipToZip      = "shipToZip"
	FieldShipToCountry  = "shipToCountry"

	FieldLineNumber       = "lineNumber"
	FieldQuantity         = "quantity"
	FieldUnitPrice        = "unitPrice"
	FieldUnitOfMeasure    = "unitOfMeasure"
	FieldRetailPrice      = "retailPrice"
	FieldGTIN             = "gtin"
	FieldSKU              = "sku"
	FieldVendorItemNumber = "vendorItemNumber"
	FieldBuyerItemNumber  = "buyerItemNumber"
	FieldStyle            = "style"
	FieldColor            = "color"
	FieldSize             = "size"
	FieldDescription      = "description"
	FieldGroupDescription = "groupDescription"
	FieldPack             = "pack"
	FieldInnerPack        = "innerPack"
	FieldAssortmentPack   = "assortmentPack"
)

// DefaultColumns returns the built-in candidate column names for every
// logical field, most specific first. Dotted names also match their
// underscore spelling (see csvparser.Record.First).
func DefaultColumns() csvparser.ColumnSet {
	return csvparser.ColumnSet{
		FieldPONumber:          {"po.po_num", "po.po_number", "po_number", "po_num", "PO Number"},
		FieldPOID:              {"po.po_id", "po_id"},
		FieldPODate:            {"po.po_created_date", "po.po_created_at", "po.po_date", "po_date", "order_date"},
		FieldPOType:            {"po.po_type", "po_type"},
		FieldCurrency:          {"po.po_currency", "po.currency", "currency"},
		FieldDepartment:        {"po.po_dept", "po.po_department", "department"},
		FieldShipNotBefore:     {"po.po_ship_open_date", "po.ship_open_date", "ship_not_before"},
		FieldShipNotAfter:      {"po.po_ship_close_date", "po.ship_close_date", "ship_not_after"},
		FieldCancelAfter:       {"po.po_cancel_date", "po.cancel_date", "cancel_date"},
		FieldDeliveryRequested: {"po.po_delivery_date", "po.requested_delivery_date", "delivery_date"},

		FieldVendorName:   {"vendor.vendor_name", "po.vendor_name", "vendor_name"},
		FieldVendorCode:   {"vendor.vendor_code", "vendor.vendor_num", "po.vendor_code", "vendor_code"},
		FieldRetailerName: {"retailer.retailer_name", "po.retailer_name", "retailer_name", "customer_name"},
		FieldRetailerCode: {"retailer.retailer_code", "po.retailer_code", "retailer_code"},

		FieldShipToName:     {"ship_to.ship_to_name", "po.ship_to_name", "ship_to_name"},
		FieldShipToCode:     {"ship_to.ship_to_code", "po.ship_to_code", "ship_to_code", "store_number"},
		FieldShipToAddress1: {"ship_to.ship_to_address1", "ship_to.ship_to_address_1", "po.ship_to_address1", "ship_to_address1"},
		FieldShipToAddress2: {"ship_to.ship_to_address2", "ship_to.ship_to_address_2", "po.ship_to_address2", "ship_to_address2"},
		FieldShipToCity:     {"ship_to.ship_to_city", "po.ship_to_city", "ship_to_city"},
		FieldShipToState:    {"ship_to.ship_to_state", "po.ship_to_state", "ship_to_state"},
		FieldShipToZip:      {"ship_to.ship_to_zip", "ship_to.ship_to_postal_code", "po.ship_to_zip", "ship_to_zip"},
		FieldShipToCountry:  {"ship_to.ship_to_country", "po.ship_to_country", "ship_to_country"},

		FieldLineNumber:       {"po_item.po_item_line_num", "po_item.po_item_line_number", "line_number"},
		FieldQuantity:         {"po_item.po_item_qty_ordered", "po_item.po_item_qty", "qty_ordered", "quantity"},
		FieldUnitPrice:        {"po_item.po_item_unit_price", "po_item.po_item_cost", "unit_price"},
		FieldUnitOfMeasure:    {"po_item.po_item_uom", "po_item.po_item_unit_of_measure", "uom"},
		FieldRetailPrice:      {"po_item.po_item_retail_price", "po_item.po_item_retail", "retail_price"},
		FieldGTIN:             {"po_item.po_item_gtin", "po_item.po_item_upc", "gtin", "upc"},
		FieldSKU:              {"po_item.po_item_sku", "sku"},
		FieldVendorItemNumber: {"po_item.po_item_vendor_item_num", "po_item.po_item_vendor_style", "vendor_item_number"},
		FieldBuyerItemNumber:  {"po_item.po_item_buyer_item_num", "po_item.po_item_retailer_item_num", "buyer_item_number"},
		FieldStyle:            {"po_item.po_item_style", "style"},
		FieldColor:            {"po_item.po_item_color", "po_item.po_item_color_desc", "color"},
		FieldSize:             {"po_item.po_item_size", "po_item.po_item_size_desc", "size"},
		FieldDescription:      {"po_item.po_item_product_desc", "po_item.po_item_description", "product_description", "description"},
		FieldGroupDescription: {"po_item.po_item_product_group_desc", "product_group.product_group_desc", "product_group_description"},
		FieldPack:             {"po_item.po_item_pack", "po_item.po_item_pack_size", "pack"},
		FieldInnerPack:        {"po_item.po_item_inner_pack", "inner_pack"},
		FieldAssortmentPack:   {"po_item.po_item_assortment_pack", "assortment_pack"},
	}
}
