package converter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/po-decoder/internal/config"
	"github.com/ginjaninja78/po-decoder/internal/csvorder"
	"github.com/ginjaninja78/po-decoder/internal/types"
	"github.com/ginjaninja78/po-decoder/pkg/utils"
)

func testMainConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	root := t.TempDir()
	mainConfig := &config.MainConfig{
		InputDir:         filepath.Join(root, "input"),
		OutputDir:        filepath.Join(root, "output"),
		InputArchiveDir:  filepath.Join(root, "input_archive"),
		OutputArchiveDir: filepath.Join(root, "output_archive"),
		OutputNameFormat: "{partner}_{po}",
		OutputFormat:     config.OutputJSON,
		Review:           true,
	}
	require.NoError(t, config.EnsureDirectories(mainConfig))
	return mainConfig
}

func writeInput(t *testing.T, mainConfig *config.MainConfig, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(mainConfig.InputDir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestConverterRunX12(t *testing.T) {
	mainConfig := testMainConfig(t)
	input := writeInput(t, mainConfig, "acme_po.edi", []byte(sampleX12))
	partner := &config.PartnerConfig{PartnerCode: "ACME", Encoding: "UTF-8"}

	result := New(input, partner, mainConfig, nil, nil).Run()
	require.NoError(t, result.Error)
	require.True(t, result.Success)

	assert.Equal(t, "ACME", result.Partner)
	assert.Equal(t, filepath.Join(mainConfig.OutputDir, "ACME_PO123.json"), result.OutputFile)
	assert.Equal(t, types.FormatX12, result.Stats.Format)
	assert.Equal(t, 1, result.Stats.LineItems)
	require.NotNil(t, result.Review)
	assert.True(t, result.Review.Clean())
	assert.Empty(t, result.ReviewFile)

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "PO123", decoded["header"].(map[string]interface{})["poNumber"])

	assert.False(t, utils.FileExists(input))
	assert.Equal(t, filepath.Join(mainConfig.InputArchiveDir, "acme_po.edi"), result.ArchivePath)
	assert.True(t, utils.FileExists(result.ArchivePath))
	assert.True(t, utils.FileExists(filepath.Join(mainConfig.OutputArchiveDir, "ACME_PO123.json")))
}

func TestConverterRunLegacyEncodingToXML(t *testing.T) {
	mainConfig := testMainConfig(t)
	input := writeInput(t, mainConfig, "beta.csv",
		[]byte("po_number,vendor_name,qty_ordered,unit_price\nPO7,Caf\xe9 Co,N/A,1.00\n"))
	partner := &config.PartnerConfig{
		PartnerCode:  "BETA",
		Encoding:     "Windows-1252",
		OutputFormat: config.OutputXML,
	}

	result := New(input, partner, mainConfig, nil, nil).Run()
	require.NoError(t, result.Error)

	assert.Equal(t, filepath.Join(mainConfig.OutputDir, "BETA_PO7.xml"), result.OutputFile)
	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<vendorName>Café Co</vendorName>")
	assert.Contains(t, string(data), `<purchaseOrder format="csv">`)

	require.NotNil(t, result.Review)
	assert.False(t, result.Review.Clean())
	assert.Positive(t, result.Stats.ReviewWarnings)
	assert.Equal(t, filepath.Join(mainConfig.OutputDir, "BETA_PO7.review.txt"), result.ReviewFile)

	report, err := os.ReadFile(result.ReviewFile)
	require.NoError(t, err)
	assert.Contains(t, string(report), "items[0].quantityOrdered")
}

func TestConverterRunWithoutPartner(t *testing.T) {
	mainConfig := testMainConfig(t)
	mainConfig.Review = false
	input := writeInput(t, mainConfig, "orders.txt", []byte("ORDER|PO5\nSKU1|Widget|2\n"))

	result := New(input, nil, mainConfig, nil, nil).Run()
	require.NoError(t, result.Error)

	assert.Equal(t, DefaultPartnerCode, result.Partner)
	assert.Equal(t, filepath.Join(mainConfig.OutputDir, "default_PO5.json"), result.OutputFile)
	assert.Equal(t, types.FormatSimpleDelimited, result.Stats.Format)
	assert.Nil(t, result.Review)
}

func TestConverterRunDecodeFailure(t *testing.T) {
	mainConfig := testMainConfig(t)
	input := writeInput(t, mainConfig, "empty.csv", []byte("po_number,qty\n"))

	result := New(input, nil, mainConfig, nil, nil).Run()

	assert.False(t, result.Success)
	assert.Equal(t, ErrorTypeDecode, result.ErrorType)
	assert.True(t, errors.Is(result.Error, types.ErrNoDataRows))
	assert.Empty(t, result.OutputFile)
	assert.True(t, utils.FileExists(input))
}

func TestConverterRunMissingFile(t *testing.T) {
	mainConfig := testMainConfig(t)

	result := New(filepath.Join(mainConfig.InputDir, "missing.edi"), nil, mainConfig, nil, nil).Run()

	assert.False(t, result.Success)
	assert.Equal(t, ErrorTypeRead, result.ErrorType)
	assert.Error(t, result.Error)
}

func TestRender(t *testing.T) {
	order, err := Decode(sampleCSV, "po.csv")
	require.NoError(t, err)

	jsonData, err := Render(order, config.OutputJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(jsonData), "{\n  \"format\": \"csv\""))

	xmlData, err := Render(order, config.OutputXML)
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), "<poNumber>PO999</poNumber>")

	_, err = Render(order, "yaml")
	assert.Error(t, err)
}

func TestPartnerColumns(t *testing.T) {
	columns, err := PartnerColumns(nil)
	require.NoError(t, err)
	assert.Equal(t, csvorder.DefaultColumns(), columns)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Logical Field", "Synonym 1"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{csvorder.FieldPONumber, "Order No"}))
	dir := t.TempDir()
	require.NoError(t, f.SaveAs(filepath.Join(dir, "synonyms.xlsx")))
	require.NoError(t, f.Close())

	partner := &config.PartnerConfig{
		PartnerCode:            "ACME",
		ColumnSynonyms:         map[string][]string{csvorder.FieldPONumber: {"Ref"}},
		ColumnSynonymsWorkbook: "synonyms.xlsx",
		SourceFile:             filepath.Join(dir, "acme.yaml"),
	}

	columns, err = PartnerColumns(partner)
	require.NoError(t, err)
	candidates := columns.Candidates(csvorder.FieldPONumber)
	require.GreaterOrEqual(t, len(candidates), 2)
	assert.Equal(t, []string{"Ref", "Order No"}, candidates[:2])

	partner.ColumnSynonymsWorkbook = "missing.xlsx"
	_, err = PartnerColumns(partner)
	assert.Error(t, err)
}
