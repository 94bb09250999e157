// Package workbook reads price-list and inquiry spreadsheets and writes
// matched rates back into the inquiry workbook.
package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/quinworks/pricematch/internal/catalog"
)

// headerProbeRows is how deep into a sheet headers are searched for.
const headerProbeRows = 10

// pricelistColumns locates the relevant columns in a header row.
// Indices are 0-based positions into the row; -1 means absent.
type pricelistColumns struct {
	desc, rate, unit, category, subcategory int
}

// ReadPricelist parses priced rows from every sheet of an xlsx price
// list. A sheet participates when a header row naming Description and
// Rate is found within the first few rows; Unit, Category and
// SubCategory columns are picked up when present.
func ReadPricelist(r io.Reader) ([]catalog.ImportParams, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening price list: %w", err)
	}
	defer f.Close()

	var params []catalog.ImportParams

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}

		headerIdx, cols, ok := findPricelistHeader(rows)
		if !ok {
			continue
		}

		for _, row := range rows[headerIdx+1:] {
			desc := cellAt(row, cols.desc)
			if desc == "" {
				continue
			}

			rate, ok := parseRate(cellAt(row, cols.rate))
			if !ok || rate.Sign() <= 0 {
				continue
			}

			params = append(params, catalog.ImportParams{
				Description: desc,
				Rate:        rate,
				Unit:        cellAt(row, cols.unit),
				Category:    cellAt(row, cols.category),
				Subcategory: cellAt(row, cols.subcategory),
			})
		}
	}

	if len(params) == 0 {
		return nil, fmt.Errorf("no priced items found in price list")
	}

	return params, nil
}

// findPricelistHeader scans the first rows for one naming both a
// Description and a Rate column.
func findPricelistHeader(rows [][]string) (int, pricelistColumns, bool) {
	limit := min(headerProbeRows, len(rows))

	for i := 0; i < limit; i++ {
		cols := pricelistColumns{desc: -1, rate: -1, unit: -1, category: -1, subcategory: -1}

		for j, cell := range rows[i] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "description":
				cols.desc = j
			case "rate":
				cols.rate = j
			case "unit":
				cols.unit = j
			case "category":
				cols.category = j
			case "subcategory":
				cols.subcategory = j
			}
		}

		if cols.desc >= 0 && cols.rate >= 0 {
			return i, cols, true
		}
	}

	return 0, pricelistColumns{}, false
}

// cellAt returns the trimmed cell at a 0-based index, tolerating the
// ragged rows excelize produces for trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseRate parses a spreadsheet rate cell, tolerating thousands
// separators and currency-style spacing.
func parseRate(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}
