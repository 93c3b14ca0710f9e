package types

import "strings"

type Mode string

const (
	ModeHead   Mode = "head"
	ModeTail   Mode = "tail"
	ModeRandom Mode = "random"
)

// Modes lists the selection modes in the order they are shown to users.
var Modes = []Mode{ModeHead, ModeTail, ModeRandom}

// ParseMode matches s case-insensitively against the known modes.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(s))
	switch m {
	case ModeHead, ModeTail, ModeRandom:
		return m, true
	}
	return "", false
}

// Table is a fully loaded tabular file. Every row has len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// WithRows returns a table sharing t's columns with the given rows.
func (t *Table) WithRows(rows [][]string) *Table {
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)
	if rows == nil {
		rows = [][]string{}
	}
	return &Table{Headers: headers, Rows: rows}
}

type CopyResult struct {
	InputFile   string
	OutputFile  string
	Mode        Mode
	Columns     []string
	RowsRead    int
	RowsWritten int
	OutputBytes int64
}
