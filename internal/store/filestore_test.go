package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/domain"
)

func testKey() domain.RecordKey {
	return domain.RecordKey{
		Source:       "decl.pdf",
		Page:         1,
		DocumentType: domain.DocTypeDeclaration,
		Provider:     "ollama",
		Model:        "qwen3-vl:32b",
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, s.Save(ctx, &domain.ExtractionRecord{
		Key:         key,
		Fields:      map[string]any{"document_info": map[string]any{"customs_declaration_no": "531620250411"}},
		RawResponse: `{"document_info": {"customs_declaration_no": "531620250411"}}`,
		PromptUsed:  "extract the declaration",
	}))

	// Model directory is sanitized; the filename collapses the provider.
	_, err := os.Stat(filepath.Join(s.root, "qwen3-vl_32b", "decl.pdf.p1.declaration.ollama.json"))
	require.NoError(t, err)

	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "extract the declaration", got.PromptUsed)
	info, ok := got.Fields["document_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "531620250411", info["customs_declaration_no"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFileStore_NumbersSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, s.Save(ctx, &domain.ExtractionRecord{
		Key:    key,
		Fields: map[string]any{"summary": map[string]any{"net_weight_kg": json.Number("9.0000")}},
	}))
	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	summary := got.Fields["summary"].(map[string]any)
	assert.Equal(t, json.Number("9.0000"), summary["net_weight_kg"])
}

func TestFileStore_ExistsCoversFailures(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := testKey()

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveFailure(ctx, key, domain.NewFailure(domain.ReasonTimeout, "deadline exceeded", "partial output")))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "a recorded failure must count as an existing outcome")

	_, err = s.Load(ctx, key)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	failure, err := s.LoadFailure(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonTimeout, failure.Reason)
	assert.Equal(t, "partial output", failure.Diagnostic)
}

func TestFileStore_SaveReplacesFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, s.SaveFailure(ctx, key, domain.NewFailure(domain.ReasonProviderError, "boom", "")))
	require.NoError(t, s.Save(ctx, &domain.ExtractionRecord{Key: key, Fields: map[string]any{}}))

	_, err := s.LoadFailure(ctx, key)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	_, err = s.Load(ctx, key)
	assert.NoError(t, err)
}

func TestFileStore_SaveSidecar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, s.SaveSidecar(ctx, key, ".chi.md", []byte("| 字段 | 数值 |")))
	raw, err := os.ReadFile(filepath.Join(s.root, "qwen3-vl_32b", "decl.pdf.p1.declaration.ollama.chi.md"))
	require.NoError(t, err)
	assert.Equal(t, "| 字段 | 数值 |", string(raw))
}

func TestFileStore_ListModelsAndRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testKey()
	b := testKey()
	b.Source = "notice.pdf"
	b.DocumentType = domain.DocTypeNotification
	b.Model = "deepseek-ocr"
	require.NoError(t, s.Save(ctx, &domain.ExtractionRecord{Key: a, Fields: map[string]any{}}))
	require.NoError(t, s.Save(ctx, &domain.ExtractionRecord{Key: b, Fields: map[string]any{}}))
	// Failures never appear in record listings.
	c := testKey()
	c.Source = "broken.pdf"
	require.NoError(t, s.SaveFailure(ctx, c, domain.NewFailure(domain.ReasonMalformedOutput, "no json", "raw")))

	models, err := s.ListModels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"deepseek-ocr", "qwen3-vl_32b"}, models)

	keys, err := s.ListRecords(ctx, "qwen3-vl_32b")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "decl.pdf", keys[0].Source)
	assert.Equal(t, 1, keys[0].Page)
	assert.Equal(t, domain.DocTypeDeclaration, keys[0].DocumentType)
	assert.Equal(t, "ollama", keys[0].Provider)
	assert.Equal(t, "qwen3-vl_32b", keys[0].Model)

	keys, err = s.ListRecords(ctx, "no-such-model")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
