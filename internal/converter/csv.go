package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nconklindev/copyrows/internal/types"
)

func readCSV(path string) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Drops a UTF-8 BOM and decodes UTF-16 input that carries one.
	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyCSV)
	}

	headers := records[0]
	width := len(headers)
	rows := make([][]string, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) > width {
			// Line numbers count the header as line 1.
			return nil, fmt.Errorf("reading %s: line %d has %d fields, header has %d", path, i+2, len(record), width)
		}
		rows = append(rows, padRow(record, width))
	}

	return &types.Table{
		Headers: normalizeHeaders(headers, width),
		Rows:    rows,
	}, nil
}

func writeCSV(table *types.Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	if len(table.Headers) > 0 {
		if err := writer.Write(table.Headers); err != nil {
			return err
		}
	}

	// WriteAll flushes and reports any buffered write error.
	return writer.WriteAll(table.Rows)
}
