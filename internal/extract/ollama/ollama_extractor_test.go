package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

func newTestExtractor(endpoint string) *Extractor {
	return NewExtractor(&config.ProviderConfig{
		Provider:    "ollama",
		Endpoint:    endpoint,
		Model:       "qwen3-vl:32b",
		TimeoutSecs: 5,
	})
}

func TestExtract_Success(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": `{"document_info": {"customs_declaration_no": "531620250411"}}`,
		})
	}))
	defer srv.Close()

	out, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{
		Prompt: "extract the declaration",
	})
	require.Nil(t, failure)

	assert.Equal(t, "qwen3-vl:32b", gotReq.Model)
	assert.Equal(t, "json", gotReq.Format)
	assert.False(t, gotReq.Stream)

	info, ok := out.Fields["document_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "531620250411", info["customs_declaration_no"])
	assert.Equal(t, "extract the declaration", out.PromptUsed)
}

func TestExtract_ThinkingFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": "  ",
			"thinking": `{"summary": {"net_weight_kg": "9.0"}}`,
		})
	}))
	defer srv.Close()

	out, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.Nil(t, failure)
	assert.Contains(t, out.Fields, "summary")
}

func TestExtract_EmptyResponseAndThinking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"response": ""})
	}))
	defer srv.Close()

	_, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.NotNil(t, failure)
	assert.Equal(t, domain.ReasonMalformedOutput, failure.Reason)
}

func TestExtract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.NotNil(t, failure)
	assert.Equal(t, domain.ReasonProviderError, failure.Reason)
	assert.Contains(t, failure.Diagnostic, "model not found")
}

func TestExtract_MalformedModelOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "not json at all"})
	}))
	defer srv.Close()

	_, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.NotNil(t, failure)
	assert.Equal(t, domain.ReasonMalformedOutput, failure.Reason)
	assert.Contains(t, failure.Diagnostic, "not json at all")
}
