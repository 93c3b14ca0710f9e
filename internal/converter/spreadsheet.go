package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/copyrows/internal/types"
)

// Excel keeps 15 significant digits; longer numbers are stored as text so
// they read back unchanged.
const maxNumericDigits = 15

// oleSignature starts every legacy BIFF (.xls) workbook.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func readSpreadsheet(path, sheetName string) (*types.Table, error) {
	legacy, err := isLegacyWorkbook(path)
	if err != nil {
		return nil, err
	}
	if legacy {
		return readXLS(path, sheetName)
	}
	return readXLSX(path, sheetName)
}

// isLegacyWorkbook sniffs the file content. An .xls name may hold OOXML
// content and the other way round.
func isLegacyWorkbook(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	magic := make([]byte, len(oleSignature))
	if _, err := io.ReadFull(file, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(magic, oleSignature), nil
}

func readXLSX(path, sheetName string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f.GetSheetList(), sheetName, path)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
	}

	return spreadsheetTable(rows), nil
}

func readXLS(path, sheetName string) (*types.Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	names := make([]string, wb.NumSheets())
	for i := range names {
		if ws := wb.GetSheet(i); ws != nil {
			names[i] = ws.Name
		}
	}

	sheet, err := resolveSheet(names, sheetName, path)
	if err != nil {
		return nil, err
	}
	ws := wb.GetSheet(slices.Index(names, sheet))
	if ws == nil {
		return nil, fmt.Errorf("reading sheet %q of %s: unreadable sheet", sheet, path)
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := sheetRow(ws, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, max(row.LastCol(), 0))
		for c := max(row.FirstCol(), 0); c < len(cells); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	return spreadsheetTable(trimEmptyRows(rows)), nil
}

// sheetRow returns row i of ws, or nil when the file declares no such row.
// WorkSheet.Row panics on rows missing from its row map.
func sheetRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// resolveSheet picks want from names, or the first sheet when want is empty.
func resolveSheet(names []string, want, path string) (string, error) {
	if want == "" {
		if len(names) == 0 {
			return "", fmt.Errorf("%s has no sheets: %w", path, ErrSheetNotFound)
		}
		return names[0], nil
	}
	if slices.Contains(names, want) {
		return want, nil
	}
	return "", fmt.Errorf("sheet %q in %s: %w", want, path, ErrSheetNotFound)
}

// spreadsheetTable uses the first row as headers. Cells beyond the header
// row widen the table with unnamed columns.
func spreadsheetTable(rows [][]string) *types.Table {
	if len(rows) == 0 {
		return &types.Table{Headers: []string{}, Rows: [][]string{}}
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		data = append(data, padRow(row, width))
	}

	return &types.Table{
		Headers: normalizeHeaders(rows[0], width),
		Rows:    data,
	}
}

func trimEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// writeSpreadsheet writes table as a single-sheet OOXML workbook. The
// header row is always text; data cells that are canonical numbers are
// stored as numbers.
func writeSpreadsheet(table *types.Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(f.GetSheetName(0))
	if err != nil {
		return err
	}

	if len(table.Headers) > 0 {
		header := make([]interface{}, len(table.Headers))
		for i, name := range table.Headers {
			header[i] = name
		}
		if err := sw.SetRow("A1", header); err != nil {
			return err
		}

		for i, row := range table.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = cellValue(v)
			}
			if err := sw.SetRow(cell, values); err != nil {
				return err
			}
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// cellValue returns s as an int64 or float64 when that number formats back
// to exactly s, and s itself otherwise.
func cellValue(s string) interface{} {
	if s == "" || significantDigits(s) > maxNumericDigits {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return i
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsInf(fl, 0) || math.IsNaN(fl) || (fl == 0 && math.Signbit(fl)) {
			return s
		}
		if strconv.FormatFloat(fl, 'f', -1, 64) == s {
			return fl
		}
	}
	return s
}

func significantDigits(s string) int {
	n := 0
	leading := true
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if leading && r == '0' {
			continue
		}
		leading = false
		n++
	}
	return n
}
