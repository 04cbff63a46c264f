package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/models"
	"go-vagas-scraper/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var runTime = time.Date(2024, 4, 22, 13, 5, 9, 123456789, time.UTC)

func sampleListings() []models.Listing {
	return []models.Listing{
		{
			Title: "Analista de Dados", Company: "ACME", Location: "São Paulo / SP", Position: "Pleno",
			Openings: "2 vagas", Description: "SQL & Python", Link: "https://www.vagas.com.br/vagas/v1?a=1&b=2", PublishedAt: "Hoje",
		},
		{
			Title: "Desenvolvedor Go", Company: "Beta", Location: "Home Office", Position: "Sênior",
			Openings: "1 vaga", Description: "APIs", Link: "https://www.vagas.com.br/vagas/v2", PublishedAt: "Ontem",
		},
		{
			Title: "Estágio", Company: "Gama", Location: "Campinas / SP", Position: "Estágio",
			Openings: "5 vagas", Description: "Suporte", Link: "https://www.vagas.com.br/vagas/v3", PublishedAt: "22/04/2024",
		},
	}
}

func testOptions(dir string) Options {
	return Options{
		Dir:          dir,
		Prefix:       "vagas",
		SheetName:    "Vagas",
		ColumnWidths: config.DefaultColumnWidths(),
	}
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "2024-04-22 13-05-09", Timestamp(runTime))

	saoPaulo := time.FixedZone("BRT", -3*60*60)
	assert.Equal(t, "2024-04-22 13-05-09", Timestamp(runTime.In(saoPaulo)))
	assert.NotContains(t, Timestamp(time.Now()), ":")
}

func TestFileNames_ShareTimestamp(t *testing.T) {
	jsonPath, xlsxPath := FileNames("out", "vagas", "2024-04-22 13-05-09")

	assert.Equal(t, filepath.Join("out", "vagas 2024-04-22 13-05-09.json"), jsonPath)
	assert.Equal(t, filepath.Join("out", "vagas 2024-04-22 13-05-09.xlsx"), xlsxPath)
	assert.Equal(t, strings.TrimSuffix(jsonPath, ".json"), strings.TrimSuffix(xlsxPath, ".xlsx"))
}

func TestSave_WritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	listings := sampleListings()

	art, err := Save(listings, runTime, testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, "2024-04-22 13-05-09", art.Timestamp)
	assert.Contains(t, filepath.Base(art.JSON), art.Timestamp)
	assert.Contains(t, filepath.Base(art.XLSX), art.Timestamp)

	//json: exact aggregate, pretty printed, no html escaping
	data, err := os.ReadFile(art.JSON)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"titulo\": \"Analista de Dados\""))
	assert.Contains(t, string(data), `"link": "https://www.vagas.com.br/vagas/v1?a=1&b=2"`)
	var decoded []models.Listing
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, listings, decoded)

	//xlsx: one sheet, header + rows, widths
	f, err := excelize.OpenFile(art.XLSX)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Vagas"}, f.GetSheetList())
	rows, err := f.GetRows("Vagas")
	require.NoError(t, err)
	require.Len(t, rows, len(listings)+1)
	assert.Equal(t, models.ListingHeaders(), rows[0])
	for i, l := range listings {
		assert.Equal(t, l.Row(), rows[i+1])
	}

	for col, want := range config.DefaultColumnWidths() {
		got, err := f.GetColWidth("Vagas", col)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.01, "column %s", col)
	}
}

func TestSave_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	art, err := Save(sampleListings()[:1], runTime, testOptions(dir))
	require.NoError(t, err)
	assert.FileExists(t, art.JSON)
	assert.FileExists(t, art.XLSX)
}

func TestSave_SecondWriteFailureKeepsJSON(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	//a directory where the spreadsheet should go makes SaveAs fail
	_, xlsxPath := FileNames(dir, opts.Prefix, Timestamp(runTime))
	require.NoError(t, os.Mkdir(xlsxPath, 0755))

	art, err := Save(sampleListings(), runTime, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, scraper.ErrPersistence)
	require.NotNil(t, art)
	assert.FileExists(t, art.JSON)
	assert.Empty(t, art.XLSX)
}

func TestSave_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := Save(sampleListings(), runTime, testOptions(filepath.Join(file, "out")))
	assert.ErrorIs(t, err, scraper.ErrPersistence)
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
