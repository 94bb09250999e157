package workbook

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quinworks/pricematch/internal/match"
)

// CellRef locates one cell in the inquiry workbook. It is handed to the
// matching engine as the opaque destination handle and comes back on the
// result untouched; only the write-back below interprets it.
type CellRef struct {
	Sheet string
	Row   int // 1-based
	Col   int // 1-based
}

// nonItemRes filters rows that look like section headings, totals or
// page furniture rather than priceable line items.
var nonItemRes = []*regexp.Regexp{
	regexp.MustCompile(`^description`),
	regexp.MustCompile(`^item$`),
	regexp.MustCompile(`^code$`),
	regexp.MustCompile(`^section`),
	regexp.MustCompile(`^chapter`),
	regexp.MustCompile(`^bill`),
	regexp.MustCompile(`^total`),
	regexp.MustCompile(`^sub.?total`),
	regexp.MustCompile(`^ref$`),
	regexp.MustCompile(`^page`),
}

// sheetLayout records where the relevant columns live on one sheet.
// All coordinates are 1-based; qtyCol is 0 when the sheet has no
// quantity column.
type sheetLayout struct {
	name      string
	headerRow int
	descCol   int
	rateCol   int
	qtyCol    int
	maxCol    int
}

// Inquiry is an open inquiry workbook: the unpriced rows found in it
// plus enough layout to write results back in place.
type Inquiry struct {
	file    *excelize.File
	layouts []sheetLayout
	records []match.QueryRecord
}

// ReadInquiry scans every sheet for a Description/Rate(/Qty) header in
// the first rows and collects the rows still missing a rate. Rows with
// an empty description, rows that look like section furniture, and rows
// without a quantity (when the sheet has a Qty column) are skipped.
func ReadInquiry(r io.Reader) (*Inquiry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening inquiry: %w", err)
	}

	inq := &Inquiry{file: f}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}

		layout, ok := findInquiryHeader(sheet, rows)
		if !ok {
			continue
		}

		inq.layouts = append(inq.layouts, layout)
		inq.collectRows(layout, rows)
	}

	if len(inq.records) == 0 {
		f.Close()
		return nil, fmt.Errorf("no inquiry items with empty rates found")
	}

	return inq, nil
}

func findInquiryHeader(sheet string, rows [][]string) (sheetLayout, bool) {
	limit := min(headerProbeRows, len(rows))

	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	for i := 0; i < limit; i++ {
		layout := sheetLayout{name: sheet, headerRow: i + 1, maxCol: maxCol}

		for j, cell := range rows[i] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "description":
				layout.descCol = j + 1
			case "rate":
				layout.rateCol = j + 1
			case "qty", "quantity":
				layout.qtyCol = j + 1
			}
		}

		if layout.descCol > 0 && layout.rateCol > 0 {
			return layout, true
		}
	}

	return sheetLayout{}, false
}

func (q *Inquiry) collectRows(layout sheetLayout, rows [][]string) {
	for i := layout.headerRow; i < len(rows); i++ {
		row := rows[i]

		desc := cellAt(row, layout.descCol-1)
		if desc == "" || isNonItem(desc) {
			continue
		}

		if layout.qtyCol > 0 && cellAt(row, layout.qtyCol-1) == "" {
			continue
		}

		if cellAt(row, layout.rateCol-1) != "" {
			continue
		}

		q.records = append(q.records, match.QueryRecord{
			Description: desc,
			Dest: CellRef{
				Sheet: layout.name,
				Row:   i + 1,
				Col:   layout.rateCol,
			},
		})
	}
}

func isNonItem(desc string) bool {
	s := strings.ToLower(strings.TrimSpace(desc))
	if len(s) <= 2 {
		return true
	}

	for _, re := range nonItemRes {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}

// Records returns the unpriced rows in workbook order.
func (q *Inquiry) Records() []match.QueryRecord {
	return q.records
}

// Close releases the underlying workbook.
func (q *Inquiry) Close() error {
	return q.file.Close()
}
