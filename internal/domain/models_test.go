package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKey_Filename(t *testing.T) {
	key := RecordKey{
		Source:       "decl.pdf",
		Page:         3,
		DocumentType: DocTypeDeclaration,
		Provider:     "ollama_cli",
		Model:        "qwen3-vl:32b",
	}
	assert.Equal(t, "decl.pdf.p3.declaration.ollama.json", key.Filename())
	assert.Equal(t, "decl.pdf.p3.declaration.ollama.failure.json", key.FailureFilename())
	assert.Equal(t, "qwen3-vl_32b", key.ModelDir())
}

func TestParseRecordFilename(t *testing.T) {
	key, ok := ParseRecordFilename("scan.v2.final.pdf.p12.packing.gemini.json")
	require.True(t, ok)
	assert.Equal(t, "scan.v2.final.pdf", key.Source)
	assert.Equal(t, 12, key.Page)
	assert.Equal(t, DocTypePacking, key.DocumentType)
	assert.Equal(t, "gemini", key.Provider)

	for _, name := range []string{
		"decl.pdf.p1.declaration.ollama.failure.json",
		"decl.pdf.p0.declaration.ollama.json",
		"decl.pdf.px.declaration.ollama.json",
		"decl.pdf.p1.invoice.ollama.json",
		"notes.txt",
	} {
		_, ok := ParseRecordFilename(name)
		assert.False(t, ok, name)
	}
}

func TestSanitizeModelName(t *testing.T) {
	assert.Equal(t, "qwen3-vl_32b", SanitizeModelName("qwen3-vl:32b"))
	assert.Equal(t, "org_model_7b", SanitizeModelName("org/model:7b"))
	// Already sanitized names pass through unchanged.
	assert.Equal(t, "qwen3-vl_32b", SanitizeModelName("qwen3-vl_32b"))
}
