package gemini

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

func candidateBody(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func newTestExtractor(endpoint string) *Extractor {
	return NewExtractorWithEndpoint(&config.ProviderConfig{
		Provider:    "gemini",
		APIKey:      "test-key",
		Model:       "gemini-2.0-flash",
		TimeoutSecs: 5,
	}, endpoint)
}

func TestExtract_Success(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gen, ok := req["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "application/json", gen["responseMimeType"])

		_ = json.NewEncoder(w).Encode(candidateBody(`{"document_info": {"document_type": "declaration"}}`))
	}))
	defer srv.Close()

	out, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "extract"})
	require.Nil(t, failure)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, out.Fields, "document_info")
}

func TestExtract_FencedOutputTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(candidateBody("```json\n{\"summary\": {\"total_packages\": 2}}\n```"))
	}))
	defer srv.Close()

	out, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.Nil(t, failure)
	assert.Contains(t, out.Fields, "summary")
}

func TestExtract_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	_, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.NotNil(t, failure)
	assert.Equal(t, domain.ReasonMalformedOutput, failure.Reason)
}

func TestExtract_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, failure := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Prompt: "p"})
	require.NotNil(t, failure)
	assert.Equal(t, domain.ReasonProviderError, failure.Reason)
	assert.Contains(t, failure.Diagnostic, "quota exceeded")
}
