// =============================================================================
// PO Decoder - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (podecoder)
//   ├── decodeCmd  (podecoder decode)
//   ├── inspectCmd (podecoder inspect <file>)
//   └── versionCmd (podecoder version)
//
// The root command owns the global flags (--config, --verbose) and the
// logger shared by every subcommand.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/po-decoder/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logger is shared by all commands. Its level and output are set from the
// configuration once it has been loaded.
var logger = logrus.New()

// defaultConfigFile is used when --config is not given.
const defaultConfigFile = "config.yaml"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "podecoder",
	Short: "PO Decoder - Turn partner purchase orders into one canonical order",

	Long: `PO Decoder reads purchase orders sent by trading partners as EDI X12 850
interchanges, flat CSV exports or simple delimited files, and converts each
one into the same canonical order document (JSON or XML).

Key Features:
  - Automatic format and delimiter detection
  - Per-partner column synonyms (YAML/TOML or an XLSX workbook)
  - Legacy text encodings (Windows-1252, ISO-8859-1, UTF-16)
  - Optional review reports listing defaulted fields
  - Concurrent batch processing with automatic archival

Example Usage:
  podecoder decode                     # Decode all files in the input directory
  podecoder decode --config ./my.toml  # Use a custom configuration file
  podecoder inspect ./po.edi           # Print one decoded order to stdout`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// --config flag: Path to a YAML or TOML configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the main configuration file (.yaml, .yml or .toml)",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the main configuration and configures the logger from
// it. A missing default config file falls back to built-in defaults; a
// missing file named with --config is an error.
//
// The returned function closes the log file, if one was opened.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, func(), error) {
	var (
		mainConfig *config.MainConfig
		err        error
	)

	_, statErr := os.Stat(cfgFile)
	if cfgFile == defaultConfigFile && !cmd.Flags().Changed("config") && os.IsNotExist(statErr) {
		mainConfig = config.DefaultMainConfig()
	} else {
		mainConfig, err = config.LoadMainConfig(cfgFile)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to load main config: %w", err)
		}
	}

	closeLog, err := configureLogger(mainConfig, cmd.ErrOrStderr())
	if err != nil {
		return nil, func() {}, err
	}
	return mainConfig, closeLog, nil
}

// configureLogger applies log_level, --verbose and log_file to the logger.
func configureLogger(mainConfig *config.MainConfig, stderr io.Writer) (func(), error) {
	level, err := logrus.ParseLevel(mainConfig.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(stderr)

	if mainConfig.LogFile == "" {
		return func() {}, nil
	}

	file, err := os.OpenFile(mainConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(stderr, file))

	return func() {
		logger.SetOutput(stderr)
		file.Close()
	}, nil
}
