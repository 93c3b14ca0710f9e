package converter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nconklindev/copyrows/internal/config"
	"github.com/nconklindev/copyrows/internal/selector"
	"github.com/nconklindev/copyrows/internal/types"
)

type Format int

const (
	FormatCSV Format = iota + 1
	FormatSpreadsheet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatSpreadsheet:
		return "spreadsheet"
	}
	return "unknown"
}

var formatsByExt = map[string]Format{
	".csv":  FormatCSV,
	".xls":  FormatSpreadsheet,
	".xlsx": FormatSpreadsheet,
}

var (
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrSheetNotFound        = errors.New("sheet not found")
	ErrEmptyCSV             = errors.New("empty CSV file")
)

// ExtensionError reports a file extension with no reader or writer.
type ExtensionError struct {
	// Direction is "input" or "output".
	Direction string
	Ext       string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("unsupported %s extension '%s'. Only .csv, .xls, .xlsx are supported", e.Direction, e.Ext)
}

func (e *ExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// Ext returns the lowercase extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func FormatFromPath(path string) (Format, error) {
	format, ok := formatsByExt[Ext(path)]
	if !ok {
		return 0, fmt.Errorf("%w '%s'", ErrUnsupportedExtension, Ext(path))
	}
	return format, nil
}

// ReadTable loads the whole file at path. sheetName only applies to
// spreadsheets; empty means the first sheet.
func ReadTable(path, sheetName string) (*types.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &ExtensionError{Direction: "input", Ext: Ext(path)}
	}

	switch format {
	case FormatCSV:
		return readCSV(path)
	default:
		return readSpreadsheet(path, sheetName)
	}
}

// WriteTable writes table to path, replacing any existing file. It returns
// the size of the written file.
func WriteTable(table *types.Table, path string) (int64, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, &ExtensionError{Direction: "output", Ext: Ext(path)}
	}

	switch format {
	case FormatCSV:
		return writeAtomic(path, func(w io.Writer) error {
			return writeCSV(table, w)
		})
	default:
		return writeAtomic(path, func(w io.Writer) error {
			return writeSpreadsheet(table, w)
		})
	}
}

// CopyRows runs the read, select and write stages for cfg. Progress in
// [0, 1] is sent on progressChan without blocking when it is non-nil.
func CopyRows(cfg *config.Config, progressChan chan<- float64) (*types.CopyResult, error) {
	// Fail on a bad output extension before paying for the read.
	if _, err := FormatFromPath(cfg.OutputPath); err != nil {
		return nil, &ExtensionError{Direction: "output", Ext: Ext(cfg.OutputPath)}
	}

	table, err := ReadTable(cfg.InputPath, cfg.SheetName)
	if err != nil {
		return nil, err
	}
	slog.Debug("Input loaded.", "path", cfg.InputPath, "columns", len(table.Headers), "rows", table.Len())
	reportProgress(progressChan, 1.0/3)

	out := selector.Select(table, selector.Options{
		N:    cfg.N,
		Mode: cfg.Mode,
		Seed: cfg.Seed,
	})
	slog.Debug("Rows selected.", "mode", cfg.Mode, "requested", cfg.N, "selected", out.Len())
	reportProgress(progressChan, 2.0/3)

	size, err := WriteTable(out, cfg.OutputPath)
	if err != nil {
		return nil, err
	}
	reportProgress(progressChan, 1)

	return &types.CopyResult{
		InputFile:   cfg.InputPath,
		OutputFile:  cfg.OutputPath,
		Mode:        cfg.Mode,
		Columns:     out.Headers,
		RowsRead:    table.Len(),
		RowsWritten: out.Len(),
		OutputBytes: size,
	}, nil
}

func reportProgress(progressChan chan<- float64, p float64) {
	if progressChan == nil {
		return
	}
	select {
	case progressChan <- p:
	default:
	}
}
