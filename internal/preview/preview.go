// Package preview renders copied rows as a text table.
package preview

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/nconklindev/copyrows/internal/types"
)

// DefaultLimit is the number of rows rendered before the rest are summarized.
const DefaultLimit = 20

// Render writes up to limit rows of table to w. A limit <= 0 renders every row.
func Render(w io.Writer, table *types.Table, limit int) error {
	if len(table.Headers) == 0 {
		_, err := fmt.Fprintln(w, "(no columns)")
		return err
	}

	rows := table.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(table.Headers)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.AppendBulk(rows)
	tw.Render()

	switch hidden := table.Len() - len(rows); {
	case table.Len() == 0:
		_, err := fmt.Fprintln(w, "(no rows)")
		return err
	case hidden > 0:
		_, err := fmt.Fprintf(w, "... %d more rows\n", hidden)
		return err
	}
	return nil
}
