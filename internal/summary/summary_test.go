package summary

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

const sample = `{
	"document_info": {"customs_declaration_no": "531620250411"},
	"summary": {"net_weight_kg": "9.0"},
	"items": [{"hs_code": "85013111"}, {"hs_code": "85013112"}]
}`

func TestWriteEnglish(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEnglish(&buf, normalized(t, sample)))
	out := buf.String()

	assert.Contains(t, out, "| Field | Value |")
	assert.Contains(t, out, "| Customs Declaration No. | 531620250411 |")
	assert.Contains(t, out, "| **--- Item 1 ---** | --- |")
	assert.Contains(t, out, "| **--- Item 2 ---** | --- |")
	assert.Contains(t, out, "| HS Code | 85013111 |")
	// Fields the record does not carry still appear, marked absent.
	assert.Contains(t, out, "| Export Date | N/A |")
}

func TestWriteChinese(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChinese(&buf, normalized(t, sample)))
	out := buf.String()

	assert.Contains(t, out, "| 字段 | 数值 |")
	assert.Contains(t, out, "| 海关编号 | 531620250411 |")
	assert.Contains(t, out, "| **--- 项目 1 ---** | --- |")
	assert.Contains(t, out, "| 商品编号 | 85013111 |")
	// No Chinese label falls back to the English display name.
	assert.Contains(t, out, "| Document Type |")
}
