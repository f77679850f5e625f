package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMainConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
input_dir: `+filepath.Join(dir, "in")+`
output_dir: `+filepath.Join(dir, "out")+`
input_archive_dir: `+filepath.Join(dir, "in_archive")+`
output_archive_dir: `+filepath.Join(dir, "out_archive")+`
output_format: xml
max_concurrency: 2
review: true
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, OutputXML, cfg.OutputFormat)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.True(t, cfg.Review)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "{partner}_{po}_{uuid}", cfg.OutputNameFormat)
	assert.DirExists(t, filepath.Join(dir, "in"))
	assert.DirExists(t, filepath.Join(dir, "out_archive"))
}

func TestLoadMainConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
input_dir = "`+filepath.ToSlash(filepath.Join(dir, "in"))+`"
output_dir = "`+filepath.ToSlash(filepath.Join(dir, "out"))+`"
input_archive_dir = "`+filepath.ToSlash(filepath.Join(dir, "ia"))+`"
output_archive_dir = "`+filepath.ToSlash(filepath.Join(dir, "oa"))+`"
log_level = "debug"
continue_on_error = true
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.ContinueOnError)
	assert.Equal(t, OutputJSON, cfg.OutputFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
}

func TestLoadMainConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
input_dir: `+filepath.Join(dir, "in")+`
output_dir: `+filepath.Join(dir, "out")+`
input_archive_dir: `+filepath.Join(dir, "ia")+`
output_archive_dir: `+filepath.Join(dir, "oa")+`
log_level: info
`)
	writeFile(t, dir, ".env", "PODECODER_LOG_LEVEL=warn\nPODECODER_MAX_CONCURRENCY=9\nPODECODER_OUTPUT_FORMAT=xml\n")
	t.Setenv("PODECODER_OUTPUT_FORMAT", "json")
	t.Setenv("PODECODER_REVIEW", "true")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel, ".env overrides the file")
	assert.Equal(t, 9, cfg.MaxConcurrency)
	assert.Equal(t, OutputJSON, cfg.OutputFormat, "process environment overrides .env")
	assert.True(t, cfg.Review)
}

func TestLoadMainConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadMainConfig(writeFile(t, dir, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = LoadMainConfig(writeFile(t, dir, "bad.yaml", "output_format: pdf\nlog_level: loud\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "output_format")
	assert.ErrorContains(t, err, "log_level")

	t.Setenv("PODECODER_MAX_CONCURRENCY", "many")
	_, err = LoadMainConfig(writeFile(t, dir, "ok.yaml", "log_level: info\n"))
	assert.ErrorContains(t, err, "PODECODER_MAX_CONCURRENCY")
}

func TestDefaultMainConfig(t *testing.T) {
	cfg := DefaultMainConfig()
	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, OutputJSON, cfg.OutputFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
}

func TestLoadPartnerConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme.yaml", `
partner_name: Acme Retail
partner_code: ACME
file_matching_patterns: ["acme_*.edi", "acme_*.csv"]
encoding: Windows-1252
column_synonyms:
  poNumber: ["Order No"]
column_synonyms_workbook: synonyms.xlsx
output_format: xml
`)
	writeFile(t, dir, "fredm.toml", `
partner_name = "Fred M"
file_matching_patterns = ["fm_*"]

[column_synonyms]
quantity = ["Units", "Qty"]
`)

	partners, err := LoadPartnerConfigs(dir)
	require.NoError(t, err)
	require.Len(t, partners, 2)

	acme := partners["ACME"]
	require.NotNil(t, acme)
	assert.Equal(t, "Windows-1252", acme.Encoding)
	assert.Equal(t, []string{"Order No"}, acme.ColumnSynonyms["poNumber"])
	assert.Equal(t, filepath.Join(dir, "synonyms.xlsx"), acme.WorkbookPath())
	assert.True(t, acme.Matches("/drop/acme_0001.edi"))
	assert.False(t, acme.Matches("other.edi"))

	fm := partners["fredm"]
	require.NotNil(t, fm, "partner code defaults to the file name")
	assert.Equal(t, "UTF-8", fm.Encoding)
	assert.Equal(t, []string{"Units", "Qty"}, fm.ColumnSynonyms["quantity"])
	assert.Equal(t, "", fm.WorkbookPath())

	main := DefaultMainConfig()
	assert.Equal(t, OutputXML, acme.ResolveOutputFormat(main))
	assert.Equal(t, OutputJSON, fm.ResolveOutputFormat(main))
	var none *PartnerConfig
	assert.Equal(t, OutputJSON, none.ResolveOutputFormat(main))

	assert.Same(t, acme, FindPartner(partners, "acme_1.csv"))
	assert.Same(t, fm, FindPartner(partners, "fm_1.txt"))
	assert.Nil(t, FindPartner(partners, "unknown.txt"))
}

func TestLoadPartnerConfigsMissingDir(t *testing.T) {
	partners, err := LoadPartnerConfigs(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, partners)
}

func TestLoadPartnerConfigsDuplicateCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "partner_code: X\n")
	writeFile(t, dir, "b.yaml", "partner_code: X\n")

	_, err := LoadPartnerConfigs(dir)
	assert.ErrorContains(t, err, "duplicate partner_code")
}
