package diffreport

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/schema"
)

func normalized(t *testing.T, raw string) *schema.Normalized {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var rec map[string]any
	require.NoError(t, dec.Decode(&rec))
	return schema.Normalize(rec)
}

func TestDiff_IdenticalRecordsYieldNothing(t *testing.T) {
	rec := normalized(t, `{
		"document_info": {"customs_declaration_no": "531620250411"},
		"summary": {"net_weight_kg": "12.5"},
		"items": [{"hs_code": "85013111", "quantity": 9.0}]
	}`)
	assert.Empty(t, Diff(rec, rec))
}

func TestDiff_ValueMismatch(t *testing.T) {
	a := normalized(t, `{"summary": {"net_weight_kg": "9.0"}}`)
	b := normalized(t, `{"summary": {"net_weight_kg": "9.1"}}`)

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Equal(t, KindValueMismatch, diffs[0].Kind)
	assert.Equal(t, "summary.net_weight_kg", diffs[0].Field)
	assert.Equal(t, "9.0", diffs[0].Baseline)
	assert.Equal(t, "9.1", diffs[0].Candidate)
}

func TestDiff_NumericFormattingIsNotADifference(t *testing.T) {
	a := normalized(t, `{"items": [{"quantity": 9.0}]}`)
	b := normalized(t, `{"items": [{"quantity": 9.0000}]}`)
	assert.Empty(t, Diff(a, b))
}

func TestDiff_PresenceMismatch(t *testing.T) {
	a := normalized(t, `{"document_info": {"export_date": "2025-05-08"}}`)
	b := normalized(t, `{"document_info": {}}`)

	diffs := Diff(a, b)
	require.Len(t, diffs, 1)
	assert.Equal(t, KindPresenceMismatch, diffs[0].Kind)
	assert.Equal(t, "2025-05-08", diffs[0].Baseline)
	assert.Equal(t, "N/A", diffs[0].Candidate)
}

func TestDiff_BothAbsentIsNotADifference(t *testing.T) {
	// One record nests, the other is flat; neither carries trade_mode_id.
	// Absent vs. flat-inexpressible is still "both non-present".
	a := normalized(t, `{"coded_attributes": {"trade_mode": "general"}}`)
	b := normalized(t, `{"trade_mode": "general"}`)

	for _, d := range Diff(a, b) {
		assert.NotEqual(t, "coded_attributes.trade_mode_id", d.Field)
	}
}

func TestReport_InsertionOrderPreserved(t *testing.T) {
	r := NewReport("qwen3-vl:32b", "deepseek-ocr")
	r.Add("b.pdf", []FieldDiff{{Field: "summary.net_weight_kg", Kind: KindValueMismatch, Baseline: "1", Candidate: "2"}})
	r.Add("a.pdf", []FieldDiff{{Field: "document_info.export_date", Kind: KindPresenceMismatch, Baseline: "x", Candidate: "N/A"}})
	r.Add("no-diffs.pdf", nil)

	assert.Equal(t, []string{"b.pdf", "a.pdf"}, r.Documents())
	assert.Equal(t, 2, r.Len())

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	// b.pdf was added first and must serialize first, despite sorting last.
	assert.Less(t, bytes.Index(raw, []byte("b.pdf")), bytes.Index(raw, []byte("a.pdf")))
}

func TestReport_AddTwiceReplacesInPlace(t *testing.T) {
	r := NewReport("m1", "m2")
	r.Add("doc.pdf", []FieldDiff{{Field: "f1", Kind: KindValueMismatch}})
	r.Add("other.pdf", []FieldDiff{{Field: "f2", Kind: KindValueMismatch}})
	r.Add("doc.pdf", []FieldDiff{{Field: "f3", Kind: KindValueMismatch}})

	assert.Equal(t, []string{"doc.pdf", "other.pdf"}, r.Documents())
	require.Len(t, r.Diffs("doc.pdf"), 1)
	assert.Equal(t, "f3", r.Diffs("doc.pdf")[0].Field)
}

func TestReport_WriteJSONRoundTrips(t *testing.T) {
	r := NewReport("m1", "m2")
	r.Add("doc.pdf", []FieldDiff{{
		Field: "summary.gross_weight_kg", Kind: KindValueMismatch, Baseline: "100", Candidate: "101",
	}})

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded map[string][]FieldDiff
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded["doc.pdf"], 1)
	assert.Equal(t, "101", decoded["doc.pdf"][0].Candidate)
}

func TestReport_WriteMarkdown(t *testing.T) {
	r := NewReport("qwen3-vl:32b", "deepseek-ocr")
	r.Add("decl.pdf", []FieldDiff{{
		Field: "summary.net_weight_kg", Kind: KindValueMismatch, Baseline: "9.0", Candidate: "9.1",
	}})

	var buf bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&buf))
	out := buf.String()
	assert.Contains(t, out, "deepseek-ocr vs. qwen3-vl:32b")
	assert.Contains(t, out, "`decl.pdf`")
	assert.Contains(t, out, "`summary.net_weight_kg`")
}
