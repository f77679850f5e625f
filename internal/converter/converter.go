// =============================================================================
// PO Decoder - Converter Module
// =============================================================================
//
// This module contains the decoder core entry points (Detect, Router) and the
// per-file pipeline used by the batch CLI. The pipeline wraps the core with
// file IO:
//
// CONVERSION PIPELINE:
//   1. Read the input file
//   2. Convert its bytes to text using the partner's encoding
//   3. Detect the format and decode it into a CanonicalOrder
//   4. Review defaulted fields (optional)
//   5. Render the order as JSON or XML
//   6. Write the output file (and review report)
//   7. Archive the processed files
//
// CONCURRENCY:
//   Each file is processed by its own Converter. Converters share only the
//   read-only configuration and a Router, so any number may run at once.
//
// =============================================================================

package converter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/po-decoder/internal/config"
	"github.com/ginjaninja78/po-decoder/internal/csvorder"
	"github.com/ginjaninja78/po-decoder/internal/csvparser"
	"github.com/ginjaninja78/po-decoder/internal/types"
	"github.com/ginjaninja78/po-decoder/internal/validation"
	"github.com/ginjaninja78/po-decoder/internal/xlsxparser"
	"github.com/ginjaninja78/po-decoder/internal/xmlwriter"
	"github.com/ginjaninja78/po-decoder/pkg/utils"
)

// DefaultPartnerCode names output files of documents without a partner.
const DefaultPartnerCode = "default"

// Error types reported in Result.ErrorType.
const (
	ErrorTypeRead   = "read"
	ErrorTypeDecode = "decode"
	ErrorTypeRender = "render"
	ErrorTypeWrite  = "write"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// Partner is the partner code the file was processed for.
	Partner string

	// OutputFile is the path to the generated file.
	// This is empty if processing failed.
	OutputFile string

	// ReviewFile is the path to the review report, if one was written.
	ReviewFile string

	// ArchivePath is where the input file was moved to.
	ArchivePath string

	// Order is the decoded order. It is nil if decoding failed.
	Order *types.CanonicalOrder

	// Review holds the review findings when review is enabled.
	Review *validation.ReviewResult

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// ErrorType classifies Error (one of the ErrorType constants).
	ErrorType string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Format is the decoding path that was used.
	Format types.Format

	// LineItems is the number of items decoded.
	LineItems int

	// ReviewWarnings and ReviewInfos count review findings by severity.
	ReviewWarnings int
	ReviewInfos    int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the decoding of a single purchase-order file.
type Converter struct {
	// inputPath is the path to the input file.
	inputPath string

	// partner is the partner configuration; nil when no partner matched.
	partner *config.PartnerConfig

	// mainConfig is the main application configuration.
	mainConfig *config.MainConfig

	router *Router
	files  *utils.FileManager
	log    logrus.FieldLogger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the input file.
//   - partner: The partner configuration, or nil.
//   - mainConfig: The main application configuration.
//   - router: The router to decode with; nil builds one from the partner.
//   - log: The logger; nil discards output.
//
// RETURNS:
//   - A new Converter instance.
func New(inputPath string, partner *config.PartnerConfig, mainConfig *config.MainConfig, router *Router, log logrus.FieldLogger) *Converter {
	if router == nil {
		router = NewRouter(nil, log)
	}
	if log == nil {
		log = router.log
	}

	return &Converter{
		inputPath:  inputPath,
		partner:    partner,
		mainConfig: mainConfig,
		router:     router,
		files: utils.NewFileManager(
			mainConfig.InputDir,
			mainConfig.OutputDir,
			mainConfig.InputArchiveDir,
			mainConfig.OutputArchiveDir,
		),
		log: log.WithFields(logrus.Fields{
			"file":    filepath.Base(inputPath),
			"partner": partnerCode(partner),
		}),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
		Partner:  partnerCode(c.partner),
	}
	fail := func(errorType string, err error) Result {
		result.Error = err
		result.ErrorType = errorType
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	c.log.Info("Processing file")

	// =========================================================================
	// STEP 1-2: READ AND DECODE TEXT
	// =========================================================================

	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		return fail(ErrorTypeRead, fmt.Errorf("failed to read input file: %w", err))
	}

	text, err := utils.DecodeText(data, c.encoding())
	if err != nil {
		return fail(ErrorTypeRead, fmt.Errorf("failed to decode input file: %w", err))
	}

	// =========================================================================
	// STEP 3: DECODE ORDER
	// =========================================================================

	order, err := c.router.Decode(text, filepath.Base(c.inputPath))
	if err != nil {
		return fail(ErrorTypeDecode, fmt.Errorf("failed to decode order: %w", err))
	}

	result.Order = order
	result.Stats.Format = order.Format
	result.Stats.LineItems = len(order.Items)

	// =========================================================================
	// STEP 4: REVIEW
	// =========================================================================

	if c.mainConfig.Review {
		review := validation.Review(order)
		result.Review = review
		result.Stats.ReviewWarnings = review.WarningCount
		result.Stats.ReviewInfos = review.InfoCount

		for _, finding := range review.Findings {
			entry := c.log.WithField("field", finding.Field)
			if finding.Severity == validation.SeverityWarning {
				entry.Warn(finding.Message)
			} else {
				entry.Debug(finding.Message)
			}
		}
	}

	// =========================================================================
	// STEP 5: RENDER
	// =========================================================================

	format := c.partner.ResolveOutputFormat(c.mainConfig)
	rendered, err := Render(order, format)
	if err != nil {
		return fail(ErrorTypeRender, err)
	}

	// =========================================================================
	// STEP 6: WRITE OUTPUT
	// =========================================================================

	outputPath, err := c.writeOutput(order, rendered, format)
	if err != nil {
		return fail(ErrorTypeWrite, fmt.Errorf("failed to write output: %w", err))
	}
	result.OutputFile = outputPath
	c.log.WithField("output", outputPath).Info("Wrote output")

	if result.Review != nil && !result.Review.Clean() {
		reviewPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".review.txt"
		if err := validation.WriteReport(result.Review, c.inputPath, reviewPath); err != nil {
			return fail(ErrorTypeWrite, err)
		}
		result.ReviewFile = reviewPath
	}

	// =========================================================================
	// STEP 7: ARCHIVE FILES
	// =========================================================================

	archivePath, err := c.archiveFiles(outputPath)
	if err != nil {
		// The output exists, so the file still counts as processed.
		c.log.WithError(err).Warn("Failed to archive files")
	}
	result.ArchivePath = archivePath

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (c *Converter) encoding() string {
	if c.partner == nil {
		return ""
	}
	return c.partner.Encoding
}

// writeOutput writes the rendered order to the output directory.
//
// NAMING:
//   The file name is built from MainConfig.OutputNameFormat:
//   - {uuid}: A random UUID
//   - {timestamp}: Current timestamp
//   - {partner}: Partner code
//   - {po}: PO number of the order
//   - {original}: Input file name without extension
func (c *Converter) writeOutput(order *types.CanonicalOrder, rendered []byte, format string) (string, error) {
	base := filepath.Base(c.inputPath)
	fileName := utils.GenerateOutputFileName(c.mainConfig.OutputNameFormat, "."+format, map[string]string{
		"partner":  partnerCode(c.partner),
		"po":       types.Deref(order.Header.PONumber),
		"original": strings.TrimSuffix(base, filepath.Ext(base)),
	})

	outputPath := filepath.Join(c.mainConfig.OutputDir, fileName)
	if err := os.WriteFile(outputPath, rendered, 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// archiveFiles moves the input file to the input archive and copies the
// output file to the output archive.
func (c *Converter) archiveFiles(outputPath string) (string, error) {
	archivePath, err := c.files.ArchiveInputFile(c.inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to archive input file: %w", err)
	}

	if _, err := c.files.ArchiveOutputFile(outputPath); err != nil {
		return archivePath, fmt.Errorf("failed to archive output file: %w", err)
	}

	return archivePath, nil
}

func partnerCode(partner *config.PartnerConfig) string {
	if partner == nil || partner.PartnerCode == "" {
		return DefaultPartnerCode
	}
	return partner.PartnerCode
}

// =============================================================================
// RENDERING
// =============================================================================

// Render serializes an order as "json" (indented) or "xml".
func Render(order *types.CanonicalOrder, format string) ([]byte, error) {
	switch format {
	case config.OutputJSON, "":
		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case config.OutputXML:
		data, err := xmlwriter.Generate(order)
		if err != nil {
			return nil, fmt.Errorf("failed to generate XML: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// =============================================================================
// PARTNER COLUMNS
// =============================================================================

// PartnerColumns returns the CSV column set for a partner: the built-in
// columns with the partner's workbook synonyms and then its inline
// synonyms prepended, so inline synonyms are tried first.
func PartnerColumns(partner *config.PartnerConfig) (csvparser.ColumnSet, error) {
	columns := csvorder.DefaultColumns()
	if partner == nil {
		return columns, nil
	}

	if path := partner.WorkbookPath(); path != "" {
		synonyms, err := xlsxparser.ParseColumnWorkbook(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load column synonyms for %s: %w", partner.PartnerCode, err)
		}
		columns = columns.WithSynonyms(synonyms)
	}

	if len(partner.ColumnSynonyms) > 0 {
		columns = columns.WithSynonyms(partner.ColumnSynonyms)
	}

	return columns, nil
}
