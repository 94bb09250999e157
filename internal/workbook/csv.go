package workbook

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/quinworks/pricematch/internal/catalog"
	enc "github.com/quinworks/pricematch/internal/encoding"
)

// ReadPricelistCSV parses a CSV price-list export. The file's charset
// and delimiter are detected, then the same Description/Rate header
// probe as the workbook reader locates the columns.
func ReadPricelistCSV(r io.Reader) ([]catalog.ImportParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	headerIdx, cols, ok := findPricelistHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no Description/Rate header found in CSV price list")
	}

	var params []catalog.ImportParams

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

	if len(params) == 0 {
		return nil, fmt.Errorf("no priced items found in CSV price list")
	}

	return params, nil
}

// detectDelimiter picks semicolon when the first line carries more of
// them than commas, which is what European spreadsheet exports produce.
func detectDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(4096)

	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}
