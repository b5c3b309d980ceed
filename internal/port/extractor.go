package port

import (
	"context"

	"tradedocs/internal/domain"
)

// ExtractInput carries everything one extraction call needs.
type ExtractInput struct {
	// Prompt is the fully rendered document-type prompt.
	Prompt string
	// Text is the OCR or page text substituted into the prompt, kept for
	// the audit trail.
	Text string
	// ImagePath points at the rendered page image for providers that take
	// an image path instead of inline text.
	ImagePath string
	// Model is the provider-side model identifier, e.g. "qwen3-vl:32b".
	Model string
}

// ExtractOutput is a successful extraction: the validated field map plus the
// raw provider response it was recovered from.
type ExtractOutput struct {
	Fields      map[string]any
	RawResponse string
	PromptUsed  string
}

// Extractor abstracts one model provider. A failed call returns a
// *domain.ExtractionFailure describing what went wrong, so callers can
// persist the failure instead of losing it; any other error means the
// provider itself could not be reached in a way worth recording.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, *domain.ExtractionFailure)
	// Name returns the provider identifier used in record keys.
	Name() string
}
