// Package ollama extracts structured data from document pages through the
// Ollama REST API.
package ollama

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
	"strings"
	"time"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
	"tradedocs/internal/rawparse"
)

// Extractor implements port.Extractor against an Ollama server's
// /api/generate endpoint.
type Extractor struct {
	endpoint string
	model    string
	timeout  time.Duration
	client   *http.Client
}

// NewExtractor creates an Ollama REST extractor.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return &Extractor{
		endpoint: endpoint,
		model:    cfg.Model,
		timeout:  cfg.Timeout(),
		client:   &http.Client{},
	}
}

func (e *Extractor) Name() string {
	return "ollama"
}

// generateRequest is the /api/generate payload. format: "json" asks the model
// for a bare JSON body; stream: false returns one complete response object.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
	Format string   `json:"format"`
}

// generateResponse models the fields of the Ollama response we consume. Some
// models leave response empty and put their output in thinking instead.
type generateResponse struct {
	Response string `json:"response"`
	Thinking string `json:"thinking"`
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, *domain.ExtractionFailure) {
	model := input.Model
	if model == "" {
		model = e.model
	}

	reqBody := generateRequest{
		Model:  model,
		Prompt: input.Prompt,
		Stream: false,
		Format: "json",
	}
	if input.ImagePath != "" {
		raw, err := os.ReadFile(input.ImagePath)
		if err != nil {
			return nil, domain.NewFailure(domain.ReasonProviderError,
				fmt.Sprintf("reading page image %s: %v", input.ImagePath, err), "")
		}
		reqBody.Images = []string{base64.StdEncoding.EncodeToString(raw)}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonProviderError, "marshaling request: "+err.Error(), "")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonProviderError, "creating request: "+err.Error(), "")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, domain.NewFailure(domain.ReasonTimeout,
				fmt.Sprintf("ollama call exceeded %s", e.timeout), "")
		}
		return nil, domain.NewFailure(domain.ReasonProviderError, "calling ollama API: "+err.Error(), "")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonProviderError, "reading response: "+err.Error(), "")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewFailure(domain.ReasonProviderError,
			fmt.Sprintf("ollama API error (status %d)", resp.StatusCode), string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, domain.NewFailure(domain.ReasonMalformedOutput,
			"decoding ollama response envelope: "+err.Error(), string(respBody))
	}

	text := parsed.Response
	if strings.TrimSpace(text) == "" {
		// Empty response field: fall back to the thinking field, which some
		// models populate instead.
		text = parsed.Thinking
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewFailure(domain.ReasonMalformedOutput,
			"ollama returned empty response and thinking fields", string(respBody))
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
