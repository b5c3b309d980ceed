// Package rawparse recovers structured records from raw provider responses:
// HTTP JSON bodies that may be wrapped in prose or markdown fencing, and CLI
// transcripts laden with ANSI animation and conversational narration.
package rawparse

import (
	"encoding/json"
	"strings"

	"tradedocs/internal/domain"
)

// SourceKind describes where a raw response came from, which decides how
// aggressively the text must be cleaned before structural search.
type SourceKind string

const (
	// SourceHTTPJSON is a response body expected to be, or tightly wrap,
	// a JSON payload.
	SourceHTTPJSON SourceKind = "http-json"
	// SourceCLITranscript is terminal output from an interactive CLI run:
	// ANSI escapes, narration, and possibly a reasoning segment containing
	// JSON-looking fragments before the final answer.
	SourceCLITranscript SourceKind = "cli-transcript"
)

// Result is a successfully parsed structured record together with the
// complete raw response it came from. The raw text is kept even on success
// because the answer may legitimately sit in an unexpected segment and
// operators need to be able to inspect the full transcript.
type Result struct {
	Fields map[string]any
	Raw    string
}

// Parse extracts a structured record from raw provider text. It is a pure
// function over the text: failure is a first-class return value (a
// *domain.ExtractionFailure tagged malformed-output, carrying the cleaned
// text as diagnostic), not a panic, because batch processing must continue
// past a single bad page. Content is never guessed at or auto-repaired.
func Parse(raw string, kind SourceKind) (*Result, *domain.ExtractionFailure) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.NewFailure(domain.ReasonMalformedOutput, "empty response", raw)
	}

	var candidate string
	var cleaned string
	var ok bool

	switch kind {
	case SourceCLITranscript:
		cleaned = StripANSI(raw)
		candidate, ok = LastJSONBlock(cleaned)
	default:
		cleaned = stripFences(raw)
		candidate, ok = firstLastSpan(cleaned)
	}
	if !ok {
		return nil, domain.NewFailure(domain.ReasonMalformedOutput,
			"no structured data found in response", cleaned)
	}

	fields, err := decodeObject(candidate)
	if err != nil {
		return nil, domain.NewFailure(domain.ReasonMalformedOutput,
			"structured block failed validation: "+err.Error(), cleaned)
	}

	return &Result{Fields: fields, Raw: raw}, nil
}

// decodeObject strictly unmarshals candidate into a field mapping. Numbers
// are kept as json.Number so that original formatting survives until the
// normalizer decides how to compare them.
func decodeObject(candidate string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// stripFences removes markdown code fences (``` or ```json) that providers
// wrap JSON bodies in despite being told not to.
func stripFences(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
