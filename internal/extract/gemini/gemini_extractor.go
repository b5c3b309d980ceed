// Package gemini extracts structured data through Google's Gemini
// generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
	"tradedocs/internal/rawparse"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Extractor implements port.Extractor using Google's Gemini API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewExtractor creates a Gemini-based extractor.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	return NewExtractorWithEndpoint(cfg, "")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		timeout:  cfg.Timeout(),
		client:   &http.Client{},
	}
}

func (e *Extractor) Name() string {
	return "gemini"
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, *domain.ExtractionFailure) {
	parts := []map[string]any{}
	if input.ImagePath != "" {
		raw, err := os.ReadFile(input.ImagePath)
		if err != nil {
			return nil, domain.NewFailure(domain.ReasonProviderError,
				fmt.Sprintf("reading page image %s: %v", input.ImagePath, err), "")
		}
		mimeType, err := imageMimeType(input.ImagePath)
		if err != nil {
			return nil, domain.NewFailure(domain.ReasonProviderError, err.Error(), "")
		}
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": mimeType,
				"data":      base64.StdEncoding.EncodeToString(raw),
			},
		})
	}
	parts = append(parts, map[string]any{"text": input.Prompt})

	reqBody := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"maxOutputTokens":  16384,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonProviderError, "marshaling request: "+err.Error(), "")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonProviderError, "creating request: "+err.Error(), "")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, domain.NewFailure(domain.ReasonTimeout,
				fmt.Sprintf("gemini call exceeded %s", e.timeout), "")
		}
		return nil, domain.NewFailure(domain.ReasonProviderError, "calling gemini API: "+err.Error(), "")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonProviderError, "reading response: "+err.Error(), "")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewFailure(domain.ReasonProviderError,
			fmt.Sprintf("gemini API error (status %d)", resp.StatusCode), string(respBody))
	}

	text, failure := candidateText(respBody)
	if failure != nil {
		return nil, failure
	}

	result, failure := rawparse.Parse(text, rawparse.SourceHTTPJSON)
	if failure != nil {
		return nil, failure
	}
	return &port.ExtractOutput{
		Fields:      result.Fields,
		RawResponse: text,
		PromptUsed:  input.Prompt,
	}, nil
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func candidateText(body []byte) (string, *domain.ExtractionFailure) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", domain.NewFailure(domain.ReasonMalformedOutput,
			"unmarshaling response: "+err.Error(), string(body))
	}
	if len(resp.Candidates) == 0 {
		return "", domain.NewFailure(domain.ReasonMalformedOutput,
			"empty response from API: no candidates", string(body))
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", domain.NewFailure(domain.ReasonMalformedOutput,
			"empty response from API: no parts", string(body))
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func imageMimeType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	default:
		return "", fmt.Errorf("unsupported page image type: %s", path)
	}
}
