// Package ollamacli extracts structured data by running the ollama binary
// directly, for setups where the REST API is unavailable or misbehaves.
package ollamacli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
	"tradedocs/internal/rawparse"
)

// Extractor implements port.Extractor by piping the prompt (and page image
// path) into `ollama run <model>` and parsing the terminal transcript.
type Extractor struct {
	binary  string
	model   string
	timeout time.Duration
	runner  Runner
}

// NewExtractor creates a CLI extractor that runs the real ollama binary.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, execRunner{})
}

// NewExtractorWithRunner creates a CLI extractor with a custom Runner (for testing).
func NewExtractorWithRunner(cfg *config.ProviderConfig, r Runner) *Extractor {
	return newExtractor(cfg, r)
}

func newExtractor(cfg *config.ProviderConfig, r Runner) *Extractor {
	binary := cfg.Binary
	if binary == "" {
		binary = "ollama"
	}
	return &Extractor{
		binary:  binary,
		model:   cfg.Model,
		timeout: cfg.Timeout(),
		runner:  r,
	}
}

func (e *Extractor) Name() string {
	return "ollama_cli"
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, *domain.ExtractionFailure) {
	model := input.Model
	if model == "" {
		model = e.model
	}

	// The CLI reads the prompt from stdin; a trailing image path makes
	// vision models load the page image from disk.
	stdin := input.Prompt
	if input.ImagePath != "" {
		stdin = input.Prompt + " " + input.ImagePath
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	stdout, stderr, err := e.runner.Run(ctx, stdin, e.binary, "run", model)

	if ctx.Err() == context.DeadlineExceeded {
		// The partial transcript captured before the kill is the only
		// evidence of what the model was doing; it always ships with
		// the failure.
		return nil, domain.NewFailure(domain.ReasonTimeout,
			fmt.Sprintf("%s run %s timed out after %s", e.binary, model, e.timeout),
			combinedOutput(stdout, stderr))
	}
	if err != nil {
		failure := domain.NewFailure(domain.ReasonProviderError,
			fmt.Sprintf("%s run %s: %v", e.binary, model, err),
			combinedOutput(stdout, stderr))
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			failure.ExitCode = &code
		}
		return nil, failure
	}

	result, failure := rawparse.Parse(string(stdout), rawparse.SourceCLITranscript)
	if failure != nil {
		return nil, failure
	}
	return &port.ExtractOutput{
		Fields:      result.Fields,
		RawResponse: string(stdout),
		PromptUsed:  input.Prompt,
	}, nil
}

func combinedOutput(stdout, stderr []byte) string {
	out := "(empty)"
	if len(stdout) > 0 {
		out = string(stdout)
	}
	errOut := "(empty)"
	if len(stderr) > 0 {
		errOut = string(stderr)
	}
	return fmt.Sprintf("--- stdout ---\n%s\n--- stderr ---\n%s", out, errOut)
}
