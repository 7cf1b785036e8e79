package export

import (
	"encoding/csv"
	"io"

	"github.com/worklog-hq/worklog/internal/timesheet"
)

// writeCSV serializes the table as CSV. Styling hints are dropped; the
// row structure, including blank separators and total rows, is kept.
func writeCSV(w io.Writer, table *timesheet.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row.Cells); err != nil {
			return err
		}
	}

	// Flush before reading the error: the csv writer buffers, so the
	// underlying writer may not be touched until here.
	cw.Flush()
	return cw.Error()
}
