// =============================================================================
// PO Decoder - Decode Command
// =============================================================================
//
// This file defines the 'decode' command, the batch entry point. It decodes
// every purchase-order file in the input directory.
//
// COMMAND USAGE:
//   podecoder decode [flags]
//
// FLAGS:
//   --file     : Decode only this file
//   --partner  : Decode only files matched to this partner code
//
// PROCESSING PIPELINE:
//   1. Load the main and partner configurations
//   2. Build one router per partner (column synonyms)
//   3. Discover files in the input directory
//   4. Match each file to a partner configuration
//   5. Decode files concurrently, at most max_concurrency at a time
//   6. Write the error log and the processing summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-decoder/internal/config"
	"github.com/ginjaninja78/po-decoder/internal/converter"
	"github.com/ginjaninja78/po-decoder/pkg/utils"
)

// errorTypeConfig marks files that failed before decoding started.
const errorTypeConfig = "config"

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// singleFilePath restricts the run to one file.
var singleFilePath string

// partnerFilter restricts the run to files of one partner.
var partnerFilter string

// =============================================================================
// DECODE COMMAND DEFINITION
// =============================================================================

// decodeCmd represents the 'decode' command.
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode purchase-order files from the input directory",
	Long: `The decode command scans the input directory, matches each file to a
partner configuration, detects its format (X12 850, flat CSV or simple
delimited) and writes the canonical order to the output directory.

Files are decoded concurrently. Unless continue_on_error is set, no new file
is started after the first failure.

On success:
  - The order is written to the output directory (JSON or XML)
  - A .review.txt is written next to it when review is enabled and fields
    were defaulted
  - The input file is moved to the input archive

On error:
  - The input file stays in the input directory
  - The failure is written to an error log in the output directory`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecode(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(
		&singleFilePath,
		"file",
		"",
		"Decode only this file",
	)

	decodeCmd.Flags().StringVar(
		&partnerFilter,
		"partner",
		"",
		"Decode only files of this partner code",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// job is one file together with the partner it was matched to.
type job struct {
	path    string
	partner *config.PartnerConfig
}

// runDecode orchestrates the batch.
func runDecode(cmd *cobra.Command) error {
	startTime := time.Now()
	runID := uuid.New().String()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	mainConfig, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := config.EnsureDirectories(mainConfig); err != nil {
		return err
	}

	log := logger.WithField("run_id", runID)

	partners, err := config.LoadPartnerConfigs(mainConfig.ConfigsDir)
	if err != nil {
		return fmt.Errorf("failed to load partner configs: %w", err)
	}
	if partnerFilter != "" {
		if _, ok := partners[partnerFilter]; !ok {
			return fmt.Errorf("unknown partner %q", partnerFilter)
		}
	}
	log.WithField("partners", len(partners)).Info("Loaded partner configurations")

	// =========================================================================
	// STEP 2: BUILD ROUTERS
	// =========================================================================
	// Column synonyms are resolved once per partner, not once per file.

	routers := make(map[string]*converter.Router, len(partners)+1)
	routers[converter.DefaultPartnerCode] = converter.NewRouter(nil, log)
	for code, partner := range partners {
		columns, err := converter.PartnerColumns(partner)
		if err != nil {
			return err
		}
		routers[code] = converter.NewRouter(columns, log.WithField("partner", code))
	}

	// =========================================================================
	// STEP 3-4: DISCOVER AND MATCH FILES
	// =========================================================================

	files := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir)

	var inputFiles []string
	if singleFilePath != "" {
		inputFiles = []string{singleFilePath}
	} else {
		inputFiles, err = files.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	var (
		jobs      []job
		unmatched []converter.Result
	)
	for _, path := range inputFiles {
		partner := config.FindPartner(partners, path)
		switch {
		case partnerFilter != "" && (partner == nil || partner.PartnerCode != partnerFilter):
			continue
		case partner == nil && len(partners) > 0:
			unmatched = append(unmatched, converter.Result{
				FilePath:  path,
				Partner:   converter.DefaultPartnerCode,
				Error:     fmt.Errorf("no matching partner configuration found"),
				ErrorType: errorTypeConfig,
			})
			continue
		}
		jobs = append(jobs, job{path: path, partner: partner})
	}

	total := len(jobs) + len(unmatched)
	if total == 0 {
		fmt.Fprintln(out, "No files found in the input directory.")
		return nil
	}
	log.WithField("files", total).Info("Discovered input files")

	// =========================================================================
	// STEP 5: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// A buffered channel bounds the number of files in flight.

	results := make(chan converter.Result, total)
	for _, result := range unmatched {
		results <- result
	}

	var (
		wg        sync.WaitGroup
		failed    atomic.Bool
		semaphore = make(chan struct{}, mainConfig.MaxConcurrency)
	)
	failed.Store(len(unmatched) > 0)

	for _, j := range jobs {
		semaphore <- struct{}{}
		if !mainConfig.ContinueOnError && failed.Load() {
			<-semaphore
			break
		}

		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			defer func() { <-semaphore }()

			code := converter.DefaultPartnerCode
			if j.partner != nil {
				code = j.partner.PartnerCode
			}

			result := converter.New(j.path, j.partner, mainConfig, routers[code], log).Run()
			if !result.Success {
				failed.Store(true)
			}
			results <- result
		}(j)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 6: COLLECT RESULTS AND WRITE LOGS
	// =========================================================================

	summary := utils.ProcessingSummary{
		RunID:     runID,
		StartTime: startTime,
	}
	var errorEntries []utils.ErrorLogEntry

	for result := range results {
		summary.TotalFiles++
		name := filepath.Base(result.FilePath)

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalItems += result.Stats.LineItems
			summary.ReviewFindings += result.Stats.ReviewWarnings + result.Stats.ReviewInfos
			summary.ProcessedFiles = append(summary.ProcessedFiles, processedFileInfo(result))
			fmt.Fprintf(out, "  ✓ %s -> %s\n", name, filepath.Base(result.OutputFile))
			continue
		}

		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
			ErrorType:    result.ErrorType,
		})
		errorEntries = append(errorEntries, utils.ErrorLogEntry{
			Timestamp:    time.Now(),
			FileName:     result.FilePath,
			Partner:      result.Partner,
			ErrorType:    result.ErrorType,
			ErrorMessage: result.Error.Error(),
		})
		log.WithFields(logrus.Fields{
			"file":       name,
			"error_type": result.ErrorType,
		}).WithError(result.Error).Error("File failed")
		fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
	}
	summary.EndTime = time.Now()

	if skipped := total - summary.TotalFiles; skipped > 0 {
		log.WithField("skipped", skipped).Warn("Stopped after the first failure; remaining files were not started")
	}

	if _, err := utils.WriteErrorLog(errorEntries, mainConfig.OutputDir); err != nil {
		log.WithError(err).Error("Failed to write error log")
	}
	summaryPath, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir)
	if err != nil {
		log.WithError(err).Error("Failed to write processing summary")
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))
	if summaryPath != "" {
		fmt.Fprintf(out, "Summary:         %s\n", summaryPath)
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed; see the error log in %s", summary.FailedFiles, summary.TotalFiles, mainConfig.OutputDir)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func processedFileInfo(result converter.Result) utils.ProcessedFileInfo {
	info := utils.ProcessedFileInfo{
		InputFile:   result.FilePath,
		OutputFile:  result.OutputFile,
		ArchivePath: result.ArchivePath,
		Partner:     result.Partner,
		Format:      string(result.Stats.Format),
		Items:       result.Stats.LineItems,
		Findings:    result.Stats.ReviewWarnings + result.Stats.ReviewInfos,
		ProcessTime: result.Stats.ProcessingTime,
	}
	if result.Order != nil && result.Order.Header.PONumber != nil {
		info.PONumber = *result.Order.Header.PONumber
	}
	return info
}
