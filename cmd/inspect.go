// =============================================================================
// PO Decoder - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which decodes a single file and
// prints the canonical order to stdout. Nothing is written or archived, so
// it is safe to run against production inputs.
//
// COMMAND USAGE:
//   podecoder inspect <file> [flags]
//
// FLAGS:
//   --format    : Output format, json or xml (default: partner/main config)
//   --encoding  : Text encoding of the file (default: partner config)
//   --review    : Print review findings to stderr
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-decoder/internal/config"
	"github.com/ginjaninja78/po-decoder/internal/converter"
	"github.com/ginjaninja78/po-decoder/internal/validation"
	"github.com/ginjaninja78/po-decoder/pkg/utils"
)

var (
	inspectFormat   string
	inspectEncoding string
	inspectReview   bool
)

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode one file and print the canonical order",
	Long: `The inspect command decodes a single purchase-order file and prints the
result to stdout. When partner configurations exist, the partner matching the
file name supplies the column synonyms and text encoding.

Example:
  podecoder inspect ./input/acme_0001.edi --format xml --review`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectFormat, "format", "", "Output format: json or xml")
	inspectCmd.Flags().StringVar(&inspectEncoding, "encoding", "", "Text encoding of the file (e.g. UTF-8, Windows-1252)")
	inspectCmd.Flags().BoolVar(&inspectReview, "review", false, "Print review findings to stderr")
}

// runInspect decodes path and writes the rendered order to the command's
// output stream.
func runInspect(cmd *cobra.Command, path string) error {
	mainConfig, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	partners, err := config.LoadPartnerConfigs(mainConfig.ConfigsDir)
	if err != nil {
		return fmt.Errorf("failed to load partner configs: %w", err)
	}
	partner := config.FindPartner(partners, path)

	columns, err := converter.PartnerColumns(partner)
	if err != nil {
		return err
	}

	encoding := inspectEncoding
	if encoding == "" && partner != nil {
		encoding = partner.Encoding
	}

	format := inspectFormat
	if format == "" {
		format = partner.ResolveOutputFormat(mainConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	text, err := utils.DecodeText(data, encoding)
	if err != nil {
		return err
	}

	order, err := converter.NewRouter(columns, logger).Decode(text, filepath.Base(path))
	if err != nil {
		return err
	}

	rendered, err := converter.Render(order, format)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(rendered); err != nil {
		return err
	}

	if inspectReview {
		review := validation.Review(order)
		fmt.Fprint(cmd.ErrOrStderr(), validation.FormatFindings(review.Findings))
	}
	return nil
}
