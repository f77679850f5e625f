// =============================================================================
// PO Decoder - Review Pass
// =============================================================================
//
// Decoders are lenient: a quantity that fails to parse becomes 0, an
// unparseable date becomes null and a missing segment leaves its fields
// null. This module inspects a decoded order afterwards and lists every
// place where that leniency kicked in, so an operator can review the order
// by hand before it is submitted anywhere.
//
// Review never changes the order and never rejects it. Judging whether
// prices or quantities are reasonable is out of scope; only defaulted or
// inconsistent fields are reported.
//
// CHECKS:
//   - Header:  missing PO number, missing or non-calendar PO date
//   - Dates:   date roles holding passed-through, non-calendar text
//   - Items:   no items, zero quantity, zero unit price, no product ids
//   - Totals:  control counts that disagree with the decoded items
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/ginjaninja78/po-decoder/internal/types"
)

// Severities.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// isoDate matches a canonical calendar date.
var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// =============================================================================
// FINDINGS
// =============================================================================

// Finding is one field that deserves a manual look.
type Finding struct {
	// Severity is SeverityWarning or SeverityInfo.
	Severity string

	// Field is a path into the order, e.g. "header.poNumber" or
	// "items[2].quantityOrdered".
	Field string

	// Value is the decoded value, if any.
	Value string

	// Message is a human-readable explanation.
	Message string
}

// String formats the finding on one line.
func (f Finding) String() string {
	if f.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(f.Severity), f.Field, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')", strings.ToUpper(f.Severity), f.Field, f.Message, f.Value)
}

// ReviewResult contains the findings for one order.
type ReviewResult struct {
	Findings     []Finding
	WarningCount int
	InfoCount    int
}

// Clean reports whether there are no warnings.
func (r *ReviewResult) Clean() bool {
	return r.WarningCount == 0
}

func (r *ReviewResult) add(severity, field, value, message string) {
	r.Findings = append(r.Findings, Finding{Severity: severity, Field: field, Value: value, Message: message})
	if severity == SeverityWarning {
		r.WarningCount++
	} else {
		r.InfoCount++
	}
}

// =============================================================================
// MAIN REVIEW FUNCTION
// =============================================================================

// Review inspects a decoded order.
//
// PARAMETERS:
//   - order: The decoded order. It is not modified.
//
// RETURNS:
//   - A ReviewResult; an order with nothing to report has no findings.
func Review(order *types.CanonicalOrder) *ReviewResult {
	result := &ReviewResult{Findings: []Finding{}}

	reviewHeader(order, result)
	reviewDates(order, result)
	reviewItems(order, result)
	reviewTotals(order, result)

	return result
}

func reviewHeader(order *types.CanonicalOrder, result *ReviewResult) {
	if order.Header.PONumber == nil {
		result.add(SeverityWarning, "header.poNumber", "", "PO number is missing")
	}

	switch date := order.Header.PODate; {
	case date == nil:
		result.add(SeverityWarning, "header.poDate", "", "PO date is missing or could not be parsed")
	case !isoDate.MatchString(*date):
		result.add(SeverityWarning, "header.poDate", *date, "PO date is not a calendar date")
	}
}

// reviewDates reports date roles whose value was passed through unparsed.
// The order date is covered by the header check.
func reviewDates(order *types.CanonicalOrder, result *ReviewResult) {
	roles := make([]string, 0, len(order.Dates))
	for role := range order.Dates {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		value := order.Dates[role]
		if role == types.DateOrder || value == nil || isoDate.MatchString(*value) {
			continue
		}
		result.add(SeverityInfo, "dates."+role, *value, "date is not a calendar date")
	}
}

func reviewItems(order *types.CanonicalOrder, result *ReviewResult) {
	if len(order.Items) == 0 {
		result.add(SeverityWarning, "items", "", "order has no line items")
		return
	}

	for i, item := range order.Items {
		path := fmt.Sprintf("items[%d]", i)

		if item.QuantityOrdered == 0 {
			result.add(SeverityWarning, path+".quantityOrdered", item.LineNumber, "quantity is zero or could not be parsed")
		}
		if item.UnitPrice == 0 {
			result.add(SeverityWarning, path+".unitPrice", item.LineNumber, "unit price is zero or could not be parsed")
		}
		if len(item.ProductIDs) == 0 {
			result.add(SeverityInfo, path+".productIds", item.LineNumber, "item has no product identifiers")
		}
		for j, sub := range item.Sublines {
			if sub.QuantityOrdered == 0 {
				result.add(SeverityInfo, fmt.Sprintf("%s.sublines[%d].quantityOrdered", path, j), sub.LineNumber, "subline quantity is zero or could not be parsed")
			}
		}
	}
}

// reviewTotals compares control totals against the decoded items.
func reviewTotals(order *types.CanonicalOrder, result *ReviewResult) {
	totals := order.Totals

	if totals.LineItemCount != nil && *totals.LineItemCount != len(order.Items) {
		result.add(SeverityWarning, "totals.lineItemCount", fmt.Sprint(*totals.LineItemCount),
			fmt.Sprintf("control count differs from the %d decoded items", len(order.Items)))
	}

	if totals.HashTotal != nil {
		var qty float64
		for _, item := range order.Items {
			qty += item.QuantityOrdered
		}
		if !closeEnough(*totals.HashTotal, qty) {
			result.add(SeverityInfo, "totals.hashTotal", fmt.Sprint(*totals.HashTotal),
				fmt.Sprintf("hash total differs from the summed quantity %g", qty))
		}
	}

	if totals.TotalAmount != nil {
		var amount float64
		for _, item := range order.Items {
			amount += item.ExtendedAmount()
		}
		if !closeEnough(*totals.TotalAmount, amount) {
			result.add(SeverityInfo, "totals.totalAmount", fmt.Sprint(*totals.TotalAmount),
				fmt.Sprintf("total amount differs from the summed item amounts %.2f", amount))
		}
	}
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// =============================================================================
// REPORT FORMATTING
// =============================================================================

// FormatFindings formats findings for display or logging.
func FormatFindings(findings []Finding) string {
	if len(findings) == 0 {
		return "Nothing to review.\n"
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Review found %d item(s):\n\n", len(findings)))

	for i, f := range findings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.String()))
	}

	return builder.String()
}

// WriteReport writes the formatted findings of an order to filePath.
func WriteReport(result *ReviewResult, source, filePath string) error {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Source: %s\n", source))
	builder.WriteString(fmt.Sprintf("Warnings: %d, Info: %d\n\n", result.WarningCount, result.InfoCount))
	builder.WriteString(FormatFindings(result.Findings))

	if err := os.WriteFile(filePath, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("failed to write review report: %w", err)
	}
	return nil
}
