// Package summary renders single-record markdown summaries in English and
// Chinese, written beside each stored extraction record.
package summary

import (
	"fmt"
	"io"

	"tradedocs/internal/schema"
)

// labelFunc picks the display label for one canonical field.
type labelFunc func(schema.CanonicalField) string

// WriteEnglish renders the record as an English field/value markdown table.
func WriteEnglish(w io.Writer, n *schema.Normalized) error {
	return write(w, n, "| Field | Value |", "Item", schema.DisplayName)
}

// WriteChinese renders the record as a Chinese field/value markdown table.
// Fields without a Chinese label fall back to their English display name.
func WriteChinese(w io.Writer, n *schema.Normalized) error {
	return write(w, n, "| 字段 | 数值 |", "项目", schema.DisplayNameCN)
}

func write(w io.Writer, n *schema.Normalized, header, itemLabel string, label labelFunc) error {
	if _, err := fmt.Fprintf(w, "%s\n|---|---|\n", header); err != nil {
		return err
	}

	lastItem := schema.NoItem
	for _, fv := range n.Fields() {
		if fv.Field.Item != schema.NoItem && fv.Field.Item != lastItem {
			lastItem = fv.Field.Item
			if _, err := fmt.Fprintf(w, "| **--- %s %d ---** | --- |\n", itemLabel, lastItem+1); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "| %s | %s |\n", label(fv.Field), fv.Value.Render()); err != nil {
			return err
		}
	}
	return nil
}
