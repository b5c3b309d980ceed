package comparison

import (
	"fmt"
	"io"
	"strings"

	"tradedocs/internal/schema"
)

// WriteMarkdown renders the table as a GitHub-flavored markdown table with a
// field column, a Chinese label column, and one value column per model.
func (t *Table) WriteMarkdown(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "## Field Comparison: `%s`\n\n", t.SourceID); err != nil {
		return err
	}

	header := []string{"Field", "标签"}
	for _, c := range t.Columns {
		header = append(header, c.Model)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(header))); err != nil {
		return err
	}

	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells)+2)
		cells = append(cells, "`"+row.Field.String()+"`", schema.DisplayNameCN(row.Field))
		for _, cell := range row.Cells {
			cells = append(cells, escapeCell(cell))
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// escapeCell keeps pipes and newlines inside values from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
