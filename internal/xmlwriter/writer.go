// =============================================================================
// PO Decoder - XML Writer Module
// =============================================================================
//
// This module renders a decoded CanonicalOrder as an XML document. JSON is
// the primary output; XML is offered for partners whose downstream systems
// only accept XML.
//
// XML STRUCTURE:
//   <purchaseOrder format="x12">
//     <header>
//       <poNumber>PO123</poNumber>
//       <poDate>2025-01-15</poDate>
//       <references>
//         <reference qualifier="DP">042</reference>
//       </references>
//     </header>
//     <dates>
//       <date role="orderDate">2025-01-15</date>
//       <date role="cancelAfter"/>            <!-- null values stay visible -->
//     </dates>
//     <parties>
//       <party role="buyer">...</party>
//     </parties>
//     <items>
//       <item n="1">                         <!-- 1-based position -->
//         <lineNumber>1</lineNumber>
//         <productIds>
//           <productId kind="upc">012345678905</productId>
//         </productIds>
//       </item>
//     </items>
//     <totals>...</totals>
//   </purchaseOrder>
//
// Null fields are written as empty elements so that XML output from every
// decoder carries the same element set, mirroring the JSON shape rules.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootElement is the name of the document element.
	// Default: "purchaseOrder"
	RootElement string

	// RootAttributes are additional attributes for the root element.
	// Example: {"xmlns": "http://example.com/po"}
	RootAttributes map[string]string

	// IncludeRaw adds the verbatim source text as a <raw> element.
	// Default: false
	IncludeRaw bool

	// ItemIndexAttribute is the attribute name for the item position.
	// Default: "n"
	ItemIndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootElement:           "purchaseOrder",
		RootAttributes:        make(map[string]string),
		IncludeRaw:            false,
		ItemIndexAttribute:    "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders the order as XML using the default options.
//
// PARAMETERS:
//   - order: The decoded order.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if the order is nil.
func Generate(order *types.CanonicalOrder) ([]byte, error) {
	return GenerateWithOptions(order, DefaultGenerateOptions())
}

// GenerateWithOptions renders the order as XML with custom options.
func GenerateWithOptions(order *types.CanonicalOrder, options GenerateOptions) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("failed to generate XML: order is nil")
	}
	if options.RootElement == "" {
		options.RootElement = "purchaseOrder"
	}
	if options.ItemIndexAttribute == "" {
		options.ItemIndexAttribute = "n"
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	doc := buildDocument(order, options)

	xmlBytes, err := marshalWithIndent(doc, options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	buffer.Write(xmlBytes)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLDocument represents the root of the XML document.
type XMLDocument struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Children   []XMLElement
}

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr   `xml:",attr"`
	Value      string       `xml:",chardata"`
	Children   []XMLElement `xml:",any"`
}

// buildDocument constructs the XML document structure.
func buildDocument(order *types.CanonicalOrder, options GenerateOptions) *XMLDocument {
	doc := &XMLDocument{
		XMLName: xml.Name{Local: options.RootElement},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "format"}, Value: string(order.Format)},
		},
	}

	for _, key := range sortedKeys(options.RootAttributes) {
		doc.Attributes = append(doc.Attributes, xml.Attr{
			Name:  xml.Name{Local: key},
			Value: options.RootAttributes[key],
		})
	}

	doc.Children = append(doc.Children,
		buildHeaderElement(order.Header),
		buildDatesElement(order.Dates),
		buildPartiesElement(order.Parties),
		buildItemsElement(order.Items, options),
		buildTotalsElement(order.Totals),
	)

	if options.IncludeRaw {
		doc.Children = append(doc.Children, createSimpleElement("raw", order.Raw))
	}

	return doc
}

// buildHeaderElement constructs the <header> element.
func buildHeaderElement(header types.Header) XMLElement {
	element := newElement("header")
	element.Children = []XMLElement{
		createOptionalElement("poNumber", header.PONumber),
		createOptionalElement("poId", header.POID),
		createOptionalElement("poDate", header.PODate),
		createOptionalElement("poType", header.POType),
		createOptionalElement("purposeCode", header.PurposeCode),
		createOptionalElement("currency", header.Currency),
		createOptionalElement("vendorName", header.VendorName),
		createOptionalElement("retailerName", header.RetailerName),
		createOptionalElement("senderId", header.SenderID),
		createOptionalElement("receiverId", header.ReceiverID),
		createOptionalElement("interchangeControlNumber", header.InterchangeControlNumber),
		createOptionalElement("groupControlNumber", header.GroupControlNumber),
		createOptionalElement("transactionControlNumber", header.TransactionControlNumber),
	}

	references := newElement("references")
	for _, qualifier := range sortedKeys(header.References) {
		reference := createSimpleElement("reference", header.References[qualifier])
		reference.Attributes = attrs("qualifier", qualifier)
		references.Children = append(references.Children, reference)
	}
	element.Children = append(element.Children, references)

	return element
}

// buildDatesElement constructs the <dates> element. Standard roles come
// first in their display order, followed by any other roles sorted by name.
func buildDatesElement(dates map[string]*string) XMLElement {
	element := newElement("dates")

	seen := make(map[string]bool, len(types.StandardDateRoles))
	roles := make([]string, 0, len(dates))
	for _, role := range types.StandardDateRoles {
		if _, ok := dates[role]; ok {
			roles = append(roles, role)
			seen[role] = true
		}
	}
	var extra []string
	for role := range dates {
		if !seen[role] {
			extra = append(extra, role)
		}
	}
	sort.Strings(extra)
	roles = append(roles, extra...)

	for _, role := range roles {
		date := createOptionalElement("date", dates[role])
		date.Attributes = attrs("role", role)
		element.Children = append(element.Children, date)
	}

	return element
}

// buildPartiesElement constructs the <parties> element, one <party> per role.
func buildPartiesElement(parties map[string]*types.Party) XMLElement {
	element := newElement("parties")

	for _, role := range sortedKeys(parties) {
		party := parties[role]
		if party == nil {
			continue
		}
		partyElement := newElement("party")
		partyElement.Attributes = attrs("role", role)
		partyElement.Children = []XMLElement{
			createSimpleElement("name", party.Name),
			createOptionalElement("idQualifier", party.IDQualifier),
			createOptionalElement("id", party.ID),
			createOptionalElement("additionalName", party.AdditionalName),
			createOptionalElement("address1", party.Address1),
			createOptionalElement("address2", party.Address2),
			createOptionalElement("city", party.City),
			createOptionalElement("state", party.State),
			createOptionalElement("zip", party.Zip),
			createOptionalElement("country", party.Country),
		}
		element.Children = append(element.Children, partyElement)
	}

	return element
}

// buildItemsElement constructs the <items> element.
//
// STRUCTURE:
//   <items>
//     <item n="1">
//       <lineNumber>1</lineNumber>
//       ...
//       <productIds>...</productIds>
//       <packInfo>...</packInfo>
//       <destinations>...</destinations>
//       <sublines>...</sublines>
//     </item>
//   </items>
func buildItemsElement(items []types.LineItem, options GenerateOptions) XMLElement {
	element := newElement("items")

	for i, item := range items {
		itemElement := newElement("item")
		itemElement.Attributes = attrs(options.ItemIndexAttribute, strconv.Itoa(i+1))
		itemElement.Children = []XMLElement{
			createSimpleElement("lineNumber", item.LineNumber),
			createSimpleElement("quantityOrdered", formatNumber(item.QuantityOrdered)),
			createSimpleElement("unitOfMeasure", item.UnitOfMeasure),
			createSimpleElement("unitPrice", formatNumber(item.UnitPrice)),
			createOptionalElement("priceBasis", item.PriceBasis),
			createSimpleElement("amount", formatNumber(item.Amount)),
			createOptionalElement("retailPrice", formatOptionalNumber(item.RetailPrice)),
			createOptionalElement("description", item.Description),
			createOptionalElement("color", item.Color),
			createOptionalElement("size", item.Size),
			createOptionalElement("requestedDelivery", item.RequestedDelivery),
			createOptionalElement("requestedShip", item.RequestedShip),
			buildProductIDsElement(item.ProductIDs),
			buildPackInfoElement(item.PackInfo),
			buildDestinationsElement(item.Destinations),
			buildSublinesElement(item.Sublines, options),
		}
		element.Children = append(element.Children, itemElement)
	}

	return element
}

func buildProductIDsElement(ids map[string]string) XMLElement {
	element := newElement("productIds")
	for _, kind := range sortedKeys(ids) {
		id := createSimpleElement("productId", ids[kind])
		id.Attributes = attrs("kind", kind)
		element.Children = append(element.Children, id)
	}
	return element
}

func buildPackInfoElement(pack *types.PackInfo) XMLElement {
	element := newElement("packInfo")
	if pack == nil {
		return element
	}
	element.Children = []XMLElement{
		createOptionalElement("pack", pack.Pack),
		createOptionalElement("innerPack", pack.InnerPack),
		createOptionalElement("assortmentPack", pack.AssortmentPack),
	}
	return element
}

func buildDestinationsElement(destinations []types.Destination) XMLElement {
	element := newElement("destinations")
	for _, destination := range destinations {
		destinationElement := newElement("destination")
		destinationElement.Attributes = []xml.Attr{
			{Name: xml.Name{Local: "qualifier"}, Value: destination.Qualifier},
			{Name: xml.Name{Local: "id"}, Value: destination.ID},
			{Name: xml.Name{Local: "quantity"}, Value: formatNumber(destination.Quantity)},
		}
		element.Children = append(element.Children, destinationElement)
	}
	return element
}

func buildSublinesElement(sublines []types.Subline, options GenerateOptions) XMLElement {
	element := newElement("sublines")
	for i, subline := range sublines {
		sublineElement := newElement("subline")
		sublineElement.Attributes = attrs(options.ItemIndexAttribute, strconv.Itoa(i+1))
		sublineElement.Children = []XMLElement{
			createSimpleElement("lineNumber", subline.LineNumber),
			createSimpleElement("quantityOrdered", formatNumber(subline.QuantityOrdered)),
			createSimpleElement("unitOfMeasure", subline.UnitOfMeasure),
			createSimpleElement("unitPrice", formatNumber(subline.UnitPrice)),
			createOptionalElement("priceBasis", subline.PriceBasis),
			buildProductIDsElement(subline.ProductIDs),
		}
		element.Children = append(element.Children, sublineElement)
	}
	return element
}

// buildTotalsElement constructs the <totals> element.
func buildTotalsElement(totals types.Totals) XMLElement {
	var count *string
	if totals.LineItemCount != nil {
		s := strconv.Itoa(*totals.LineItemCount)
		count = &s
	}

	element := newElement("totals")
	element.Children = []XMLElement{
		createOptionalElement("lineItemCount", count),
		createOptionalElement("hashTotal", formatOptionalNumber(totals.HashTotal)),
		createOptionalElement("totalAmount", formatOptionalNumber(totals.TotalAmount)),
	}
	return element
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func newElement(name string) XMLElement {
	return XMLElement{XMLName: xml.Name{Local: name}}
}

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// createOptionalElement creates an element for a nullable value. Null
// becomes an empty element.
func createOptionalElement(name string, value *string) XMLElement {
	return createSimpleElement(name, types.Deref(value))
}

func attrs(name, value string) []xml.Attr {
	return []xml.Attr{{Name: xml.Name{Local: name}, Value: value}}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptionalNumber(f *float64) *string {
	if f == nil {
		return nil
	}
	s := formatNumber(*f)
	return &s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// marshalWithIndent marshals the document with indentation.
func marshalWithIndent(doc *XMLDocument, indent string) ([]byte, error) {
	var buffer bytes.Buffer

	buffer.WriteString("<")
	buffer.WriteString(doc.XMLName.Local)

	for _, attr := range doc.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	buffer.WriteString(">\n")

	for _, child := range doc.Children {
		writeElement(&buffer, child, indent, 1)
	}

	buffer.WriteString("</")
	buffer.WriteString(doc.XMLName.Local)
	buffer.WriteString(">\n")

	return buffer.Bytes(), nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	// Self-closing tag.
	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML. Runes that XML 1.0 cannot
// carry at all (most C0 controls, invalid UTF-8) are dropped.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\r':
			buffer.WriteString("&#xD;")
		default:
			if isXMLChar(r) {
				buffer.WriteRune(r)
			}
		}
	}

	return buffer.String()
}

func isXMLChar(r rune) bool {
	switch {
	case r == utf8.RuneError:
		return false
	case r == '\t' || r == '\n':
		return true
	case r < 0x20:
		return false
	case r >= 0xFFFE && r <= 0xFFFF:
		return false
	case r >= 0xD800 && r <= 0xDFFF:
		return false
	}
	return true
}
