// Package comparison builds side-by-side field tables across the models that
// extracted the same source document, rendered as markdown or CSV.
package comparison

import (
	"tradedocs/internal/schema"
)

// MissingRecordMarker fills every cell of a model that produced no record for
// the document. It is distinct from the per-field absence markers so a reader
// can tell "this model never ran or failed" from "this model ran and skipped
// the field".
const MissingRecordMarker = "N/A (no record)"

// Column pairs one model name with its normalized record for the document
// under comparison. Record is nil when the model has no stored record.
type Column struct {
	Model  string
	Record *schema.Normalized
}

// Row is one canonical field with its rendered value per model, in the same
// order as the table's columns.
type Row struct {
	Field schema.CanonicalField
	Cells []string
}

// Table is a cross-model field comparison for a single source document.
// Columns keep the caller's model order; rows cover the combined canonical
// field set of every record, so markdown and CSV renderings of the same table
// always carry identical row sets.
type Table struct {
	SourceID string
	Columns  []Column
	Rows     []Row
}

// Build assembles the comparison table for one document. Model order in cols
// is preserved as column order.
func Build(sourceID string, cols []Column) *Table {
	records := make([]*schema.Normalized, len(cols))
	for i, c := range cols {
		records[i] = c.Record
	}

	fields := schema.UnionFields(records)
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		cells := make([]string, len(cols))
		for i, c := range cols {
			if c.Record == nil {
				cells[i] = MissingRecordMarker
				continue
			}
			cells[i] = c.Record.ValueAt(f).Render()
		}
		rows = append(rows, Row{Field: f, Cells: cells})
	}
	return &Table{SourceID: sourceID, Columns: cols, Rows: rows}
}
