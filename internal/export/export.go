package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-vagas-scraper/internal/models"
	"go-vagas-scraper/internal/scraper"

	"github.com/xuri/excelize/v2"
)

// TimestampLayout is filesystem safe: no colons.
const TimestampLayout = "2006-01-02 15-04-05"

// Options controls file naming and the spreadsheet layout.
type Options struct {
	Dir          string
	Prefix       string
	SheetName    string
	ColumnWidths map[string]float64
}

// Artifacts are the files written for one run.
type Artifacts struct {
	Timestamp string
	JSON      string
	XLSX      string
}

// Timestamp formats t in UTC at second granularity.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FileNames returns the JSON and XLSX paths sharing one timestamp.
func FileNames(dir, prefix, timestamp string) (jsonPath, xlsxPath string) {
	base := fmt.Sprintf("%s %s", prefix, timestamp)
	return filepath.Join(dir, base+".json"), filepath.Join(dir, base+".xlsx")
}

// Save writes the JSON file, then the spreadsheet. A failure in the second
// write leaves the first file in place.
func Save(listings []models.Listing, now time.Time, opts Options) (*Artifacts, error) {
	ts := Timestamp(now)
	jsonPath, xlsxPath := FileNames(opts.Dir, opts.Prefix, ts)

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create output dir: %w", scraper.ErrPersistence, err)
		}
	}

	if err := WriteJSON(jsonPath, listings); err != nil {
		return nil, fmt.Errorf("%w: %w", scraper.ErrPersistence, err)
	}
	if err := WriteXLSX(xlsxPath, listings, opts.SheetName, opts.ColumnWidths); err != nil {
		return &Artifacts{Timestamp: ts, JSON: jsonPath}, fmt.Errorf("%w: %w", scraper.ErrPersistence, err)
	}

	return &Artifacts{Timestamp: ts, JSON: jsonPath, XLSX: xlsxPath}, nil
}

// WriteJSON writes listings as a 2-space indented array.
func WriteJSON(path string, listings []models.Listing) error {
	if listings == nil {
		listings = []models.Listing{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("marshal listings: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes one sheet: a header row followed by one row per listing.
func WriteXLSX(path string, listings []models.Listing, sheet string, widths map[string]float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, models.ListingHeaders()); err != nil {
		return err
	}
	for i, l := range listings {
		if err := setRow(f, sheet, i+2, l.Row()); err != nil {
			return err
		}
	}

	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
