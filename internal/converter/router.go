package converter

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/po-decoder/internal/csvorder"
	"github.com/ginjaninja78/po-decoder/internal/csvparser"
	"github.com/ginjaninja78/po-decoder/internal/types"
	"github.com/ginjaninja78/po-decoder/internal/x12"
)

// =============================================================================
// FORMAT ROUTER
// =============================================================================

// Router is the entry point of the decoder core: it sniffs a document and
// hands it to the X12, CSV or simple delimited decoder. A Router holds no
// per-document state and may be shared between goroutines.
type Router struct {
	csv *csvorder.Decoder
	log logrus.FieldLogger
}

// NewRouter creates a router. columns are the CSV column synonyms to use;
// nil means the built-in ones. A nil logger discards output.
func NewRouter(columns csvparser.ColumnSet, log logrus.FieldLogger) *Router {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Router{
		csv: csvorder.NewDecoder(columns, log),
		log: log,
	}
}

// Decode decodes raw text with a default router.
func Decode(raw, filename string) (*types.CanonicalOrder, error) {
	return NewRouter(nil, nil).Decode(raw, filename)
}

// Decode detects the format of raw and decodes it.
//
// PARAMETERS:
//   - raw: The document text.
//   - filename: Used only in log fields.
//
// RETURNS:
//   - The canonical order, with Raw set to the document text.
//   - A *types.ParseError for the structural failures: blank input, a CSV
//     header without data rows, or X12 text without segments.
func (r *Router) Decode(raw, filename string) (*types.CanonicalOrder, error) {
	text := strings.TrimPrefix(raw, utf8BOM)
	if strings.TrimSpace(text) == "" {
		return nil, types.NewParseError(types.ErrEmptyInput, "", "document is blank")
	}

	detection := Detect(text)
	log := r.log.WithFields(logrus.Fields{
		"file":   filename,
		"format": detection.Format,
	})
	log.Debug("Detected document format")

	var (
		order *types.CanonicalOrder
		err   error
	)
	switch detection.Format {
	case types.FormatX12:
		order, err = decodeX12(text, detection)
	case types.FormatFlatCSV:
		order, err = r.csv.Decode(text)
	default:
		order = decodeDelimited(text)
	}
	if err != nil {
		log.WithError(err).Debug("Decode failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"po_number": types.Deref(order.Header.PONumber),
		"items":     len(order.Items),
	}).Debug("Decoded order")

	return order, nil
}

func decodeX12(text string, detection Detection) (*types.CanonicalOrder, error) {
	doc, err := x12.Tokenize(text, detection.SegmentDelimiter, detection.ElementDelimiter)
	if err != nil {
		return nil, err
	}
	return x12.Decode850(doc, text), nil
}
