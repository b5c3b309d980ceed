// Package diffreport computes field-level differences between two canonical
// extraction views and accumulates them into a batch-wide aggregate report.
package diffreport

import (
	"tradedocs/internal/schema"
)

// DiffKind classifies one field-level difference.
type DiffKind string

const (
	// KindValueMismatch means both records carry the field but the
	// normalized values differ.
	KindValueMismatch DiffKind = "value-mismatch"
	// KindPresenceMismatch means exactly one record carries the field.
	// Absence is itself a difference, not something to ignore.
	KindPresenceMismatch DiffKind = "presence-mismatch"
)

// FieldDiff is one difference entry: the canonical field, the baseline value,
// and the comparison value, both rendered.
type FieldDiff struct {
	Field     string   `json:"field"`
	Kind      DiffKind `json:"kind"`
	Baseline  string   `json:"baseline"`
	Candidate string   `json:"candidate"`
}

// Diff compares two normalized records field by field over their combined
// canonical field set. A difference entry is emitted iff both values are
// present and unequal, or exactly one is present. Both absent emits nothing,
// so Diff(a, a) is always empty.
func Diff(baseline, candidate *schema.Normalized) []FieldDiff {
	var out []FieldDiff
	for _, f := range schema.UnionFields([]*schema.Normalized{baseline, candidate}) {
		bv := baseline.ValueAt(f)
		cv := candidate.ValueAt(f)

		switch {
		case bv.IsPresent() && cv.IsPresent():
			if !schema.Equal(bv, cv) {
				out = append(out, FieldDiff{
					Field:     f.String(),
					Kind:      KindValueMismatch,
					Baseline:  bv.Render(),
					Candidate: cv.Render(),
				})
			}
		case bv.IsPresent() != cv.IsPresent():
			out = append(out, FieldDiff{
				Field:     f.String(),
				Kind:      KindPresenceMismatch,
				Baseline:  bv.Render(),
				Candidate: cv.Render(),
			})
		}
	}
	return out
}
