package comparison

import (
	"encoding/csv"
	"io"

	"tradedocs/internal/schema"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders the table as CSV with a leading UTF-8 BOM. The row set and
// order match WriteMarkdown exactly; only the serialization differs.
func (t *Table) WriteCSV(w io.Writer) error {
	if _, err := w.Write(bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"field", "label_cn"}
	for _, c := range t.Columns {
		header = append(header, c.Model)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Cells)+2)
		rec = append(rec, row.Field.String(), schema.DisplayNameCN(row.Field))
		rec = append(rec, row.Cells...)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
