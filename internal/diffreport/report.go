package diffreport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Report accumulates per-document differences across a batch. Documents are
// kept in insertion order; the aggregate is serialized once, after the batch
// completes, so a partially failed batch still yields a complete report of
// everything processed so far.
type Report struct {
	BaselineModel  string
	CandidateModel string

	order []string
	byDoc map[string][]FieldDiff
}

// NewReport creates an empty aggregate report for one model pair.
func NewReport(baselineModel, candidateModel string) *Report {
	return &Report{
		BaselineModel:  baselineModel,
		CandidateModel: candidateModel,
		byDoc:          map[string][]FieldDiff{},
	}
}

// Add records the differences found for one source document. Documents with
// no differences are not recorded. Adding the same document twice replaces
// the earlier entry without disturbing its position.
func (r *Report) Add(sourceID string, diffs []FieldDiff) {
	if len(diffs) == 0 {
		return
	}
	if _, seen := r.byDoc[sourceID]; !seen {
		r.order = append(r.order, sourceID)
	}
	r.byDoc[sourceID] = diffs
}

// Len returns the number of documents with recorded differences.
func (r *Report) Len() int {
	return len(r.order)
}

// Documents returns source document identifiers in insertion order.
func (r *Report) Documents() []string {
	return r.order
}

// Diffs returns the difference entries for one document.
func (r *Report) Diffs(sourceID string) []FieldDiff {
	return r.byDoc[sourceID]
}

// MarshalJSON serializes the aggregate as an object keyed by source document,
// preserving insertion order (encoding/json would sort a plain map).
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, doc := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.byDoc[doc])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON writes the indented aggregate report to w.
func (r *Report) WriteJSON(w io.Writer) error {
	raw, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		return err
	}
	indented.WriteByte('\n')
	_, err = w.Write(indented.Bytes())
	return err
}

// WriteMarkdown writes a human-readable rendering of the aggregate report:
// one section per document with a baseline/candidate table.
func (r *Report) WriteMarkdown(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Comparison Report: %s vs. %s\n\n", r.CandidateModel, r.BaselineModel); err != nil {
		return err
	}
	for _, doc := range r.order {
		if _, err := fmt.Fprintf(w, "## Differences for: `%s`\n\n", doc); err != nil {
			return err
		}
		fmt.Fprintf(w, "| Field | Kind | `%s` (baseline) | `%s` (candidate) |\n", r.BaselineModel, r.CandidateModel)
		fmt.Fprintln(w, "|---|---|---|---|")
		for _, d := range r.byDoc[doc] {
			if _, err := fmt.Fprintf(w, "| `%s` | %s | %s | %s |\n", d.Field, d.Kind, d.Baseline, d.Candidate); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
