package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/quinworks/pricematch/internal/match"
)

// Apply writes each result's rate into its destination cell and fills
// the appended Matched Description / Similarity Score columns (plus
// Category / SubCategory when taxonomy pass-through is on).
func (q *Inquiry) Apply(results []match.Result, taxonomy bool) error {
	if err := q.writeHeaders(taxonomy); err != nil {
		return err
	}

	layoutBySheet := make(map[string]sheetLayout, len(q.layouts))
	for _, layout := range q.layouts {
		layoutBySheet[layout.name] = layout
	}

	for _, res := range results {
		dest, ok := res.Dest.(CellRef)
		if !ok {
			return fmt.Errorf("result for query %d carries no workbook destination", res.QueryID)
		}

		layout, ok := layoutBySheet[dest.Sheet]
		if !ok {
			return fmt.Errorf("result for query %d targets unknown sheet %q", res.QueryID, dest.Sheet)
		}

		rate, _ := res.Rate.Float64()

		values := []any{rate, res.MatchedDescription, res.Confidence}
		cols := []int{dest.Col, layout.maxCol + 1, layout.maxCol + 2}

		if taxonomy {
			values = append(values, res.Category, res.Subcategory)
			cols = append(cols, layout.maxCol+3, layout.maxCol+4)
		}

		for i, col := range cols {
			if err := q.setCell(dest.Sheet, dest.Row, col, values[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (q *Inquiry) writeHeaders(taxonomy bool) error {
	headers := []string{"Matched Description", "Similarity Score"}
	if taxonomy {
		headers = append(headers, "Category", "SubCategory")
	}

	for _, layout := range q.layouts {
		for i, name := range headers {
			if err := q.setCell(layout.name, layout.headerRow, layout.maxCol+1+i, name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (q *Inquiry) setCell(sheet string, row, col int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %s!%d,%d: %w", sheet, row, col, err)
	}

	if err := q.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}

	return nil
}

// WriteTo streams the priced workbook.
func (q *Inquiry) WriteTo(w io.Writer) (int64, error) {
	return q.file.WriteTo(w)
}
