// =============================================================================
// PO Decoder - Configuration Module
// =============================================================================
//
// This module loads the main application configuration and the per-partner
// configurations used by the batch CLI.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml or config.toml): global settings
//   2. Partner Configs (configs/*.yaml|*.yml|*.toml): per-partner rules
//   3. Optional .env next to the main config, plus PODECODER_* environment
//      variables, overriding individual main settings
//
// The decoder core never reads configuration; partner column synonyms are
// handed to it as a csvparser.ColumnSet.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/po-decoder/pkg/utils"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PODECODER_"

// Output formats.
const (
	OutputJSON = "json"
	OutputXML  = "xml"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for purchase-order files.
	// Default: "./input"
	InputDir string `yaml:"input_dir" toml:"input_dir"`

	// OutputDir receives decoded orders, review files and run logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// InputArchiveDir receives input files after a successful decode.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" toml:"input_archive_dir"`

	// OutputArchiveDir keeps a copy of every output file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" toml:"output_archive_dir"`

	// ConfigsDir contains the partner configuration files.
	// Default: "./configs"
	ConfigsDir string `yaml:"configs_dir" toml:"configs_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile, when set, receives log output in addition to stderr.
	LogFile string `yaml:"log_file" toml:"log_file"`

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat names output files. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {partner}   - Partner code
	//   {po}        - PO number of the decoded order
	//   {original}  - Input file name without extension
	// Default: "{partner}_{po}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format" toml:"output_name_format"`

	// OutputFormat is "json" or "xml". Partners may override it.
	// Default: "json"
	OutputFormat string `yaml:"output_format" toml:"output_format"`

	// Review writes a .review.txt next to each output listing fields that
	// were defaulted during decoding.
	Review bool `yaml:"review" toml:"review"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files decoded at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`

	// ContinueOnError keeps the batch going after a file fails.
	ContinueOnError bool `yaml:"continue_on_error" toml:"continue_on_error"`
}

// =============================================================================
// PARTNER CONFIGURATION STRUCTURE
// =============================================================================

// PartnerConfig holds the settings for one trading partner.
type PartnerConfig struct {
	// PartnerName is used in logs.
	PartnerName string `yaml:"partner_name" toml:"partner_name"`

	// PartnerCode is used in output file names. Defaults to the file name.
	PartnerCode string `yaml:"partner_code" toml:"partner_code"`

	// FileMatchingPatterns are glob patterns matched against input file names.
	// Examples:
	//   - "acme_*.edi"
	//   - "*_po_export_*.csv"
	FileMatchingPatterns []string `yaml:"file_matching_patterns" toml:"file_matching_patterns"`

	// Encoding of the partner's files: "UTF-8", "Windows-1252" or "ISO-8859-1".
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" toml:"encoding"`

	// ColumnSynonyms maps a logical CSV field (e.g. "poNumber") to extra
	// column names tried before the built-in ones.
	ColumnSynonyms map[string][]string `yaml:"column_synonyms" toml:"column_synonyms"`

	// ColumnSynonymsWorkbook is an optional XLSX file with more synonyms,
	// relative to the partner config file.
	ColumnSynonymsWorkbook string `yaml:"column_synonyms_workbook" toml:"column_synonyms_workbook"`

	// OutputFormat overrides MainConfig.OutputFormat when set.
	OutputFormat string `yaml:"output_format" toml:"output_format"`

	// SourceFile is the file this configuration was loaded from.
	SourceFile string `yaml:"-" toml:"-"`
}

// Matches reports whether the file name matches one of the partner patterns.
func (p *PartnerConfig) Matches(fileName string) bool {
	base := filepath.Base(fileName)
	for _, pattern := range p.FileMatchingPatterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// ResolveOutputFormat returns the partner output format, else the main one.
func (p *PartnerConfig) ResolveOutputFormat(main *MainConfig) string {
	if p != nil && p.OutputFormat != "" {
		return p.OutputFormat
	}
	return main.OutputFormat
}

// WorkbookPath returns the synonyms workbook path resolved against the
// partner config's directory, or "" when none is configured.
func (p *PartnerConfig) WorkbookPath() string {
	if p.ColumnSynonymsWorkbook == "" {
		return ""
	}
	if filepath.IsAbs(p.ColumnSynonymsWorkbook) || p.SourceFile == "" {
		return p.ColumnSynonymsWorkbook
	}
	return filepath.Join(filepath.Dir(p.SourceFile), p.ColumnSynonymsWorkbook)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to a .yaml, .yml or .toml file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
//
// LOADING ORDER:
//  1. Parse the file (format chosen by extension)
//  2. Apply overrides from a .env file in the same directory, if present
//  3. Apply PODECODER_* environment variables (these win over .env)
//  4. Apply defaults and validate
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig
	if err := decodeFile(configPath, &config); err != nil {
		return nil, err
	}

	env, err := loadEnv(filepath.Join(filepath.Dir(configPath), ".env"))
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(&config, env); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultMainConfig returns a configuration with every default applied,
// used when no config file is given.
func DefaultMainConfig() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// decodeFile parses YAML or TOML into out depending on the file extension.
func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

// loadEnv merges the optional .env file with the process environment. The
// process environment wins.
func loadEnv(dotenvPath string) (map[string]string, error) {
	env := map[string]string{}

	if _, err := os.Stat(dotenvPath); err == nil {
		values, err := godotenv.Read(dotenvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// applyEnvOverrides copies PODECODER_* values onto the configuration.
func applyEnvOverrides(config *MainConfig, env map[string]string) error {
	strs := map[string]*string{
		"INPUT_DIR":          &config.InputDir,
		"OUTPUT_DIR":         &config.OutputDir,
		"INPUT_ARCHIVE_DIR":  &config.InputArchiveDir,
		"OUTPUT_ARCHIVE_DIR": &config.OutputArchiveDir,
		"CONFIGS_DIR":        &config.ConfigsDir,
		"LOG_FILE":           &config.LogFile,
		"LOG_LEVEL":          &config.LogLevel,
		"OUTPUT_NAME_FORMAT": &config.OutputNameFormat,
		"OUTPUT_FORMAT":      &config.OutputFormat,
	}
	for key, target := range strs {
		if v, ok := env[EnvPrefix+key]; ok {
			*target = v
		}
	}

	var errs []error
	if v, ok := env[EnvPrefix+"MAX_CONCURRENCY"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_CONCURRENCY: %w", EnvPrefix, err))
		} else {
			config.MaxConcurrency = n
		}
	}
	bools := map[string]*bool{
		"CONTINUE_ON_ERROR": &config.ContinueOnError,
		"REVIEW":            &config.Review,
	}
	for key, target := range bools {
		v, ok := env[EnvPrefix+key]
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			continue
		}
		*target = b
	}
	return errors.Join(errs...)
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.ConfigsDir == "" {
		config.ConfigsDir = "./configs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{partner}_{po}_{uuid}"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = OutputJSON
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration and creates the
// directories it names.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	if !validOutputFormat(config.OutputFormat) {
		errs = append(errs, fmt.Errorf("output_format must be %q or %q, got %q", OutputJSON, OutputXML, config.OutputFormat))
	}
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", config.LogLevel))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	return EnsureDirectories(config)
}

// EnsureDirectories creates the working directories of the configuration.
func EnsureDirectories(config *MainConfig) error {
	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.InputArchiveDir,
		config.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func validOutputFormat(format string) bool {
	return format == OutputJSON || format == OutputXML
}

// LoadPartnerConfigs loads all partner configurations from a directory.
//
// PARAMETERS:
//   - configsDir: The directory containing partner configuration files.
//
// RETURNS:
//   - A map of partner configurations, keyed by partner code.
//   - An error if the directory cannot be read or any file is invalid.
//
// A missing directory yields an empty map.
func LoadPartnerConfigs(configsDir string) (map[string]*PartnerConfig, error) {
	configs := make(map[string]*PartnerConfig)

	if _, err := os.Stat(configsDir); os.IsNotExist(err) {
		return configs, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.toml"} {
		matches, err := filepath.Glob(filepath.Join(configsDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list config files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	for _, file := range files {
		config, err := LoadPartnerConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		if _, dup := configs[config.PartnerCode]; dup {
			return nil, fmt.Errorf("duplicate partner_code %q in %s", config.PartnerCode, file)
		}
		configs[config.PartnerCode] = config
	}

	return configs, nil
}

// LoadPartnerConfig loads a single partner configuration file.
func LoadPartnerConfig(filePath string) (*PartnerConfig, error) {
	var config PartnerConfig
	if err := decodeFile(filePath, &config); err != nil {
		return nil, err
	}
	config.SourceFile = filePath

	applyPartnerConfigDefaults(&config)

	if config.OutputFormat != "" && !validOutputFormat(config.OutputFormat) {
		return nil, fmt.Errorf("output_format must be %q or %q, got %q", OutputJSON, OutputXML, config.OutputFormat)
	}
	if !utils.SupportedEncoding(config.Encoding) {
		return nil, fmt.Errorf("unsupported encoding %q", config.Encoding)
	}
	return &config, nil
}

// applyPartnerConfigDefaults sets default values for partner configuration.
func applyPartnerConfigDefaults(config *PartnerConfig) {
	if config.PartnerCode == "" {
		base := filepath.Base(config.SourceFile)
		config.PartnerCode = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if config.PartnerName == "" {
		config.PartnerName = config.PartnerCode
	}
	if config.Encoding == "" {
		config.Encoding = "UTF-8"
	}
}

// FindPartner returns the partner whose patterns match the file name,
// checking partners in code order. It returns nil when none matches.
func FindPartner(partners map[string]*PartnerConfig, fileName string) *PartnerConfig {
	codes := make([]string, 0, len(partners))
	for code := range partners {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if partners[code].Matches(fileName) {
			return partners[code]
		}
	}
	return nil
}
