package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecordKey identifies one extraction result. Two models extracting the same
// source page are distinct, independently cached entries.
type RecordKey struct {
	Source       string       // base name of the source PDF
	Page         int          // 1-based page number
	DocumentType DocumentType // declaration, notification, packing
	Provider     string       // ollama, ollama_cli, gemini
	Model        string       // model identifier, e.g. qwen3-vl:32b
}

// SanitizeModelName makes a model identifier safe for use as a directory name.
func SanitizeModelName(model string) string {
	return strings.NewReplacer(":", "_", "/", "_").Replace(model)
}

// ProviderSuffix collapses CLI and API variants of the same provider onto one
// file suffix, so outputs from either transport land on the same record path.
func (k RecordKey) ProviderSuffix() string {
	if k.Provider == "ollama_cli" {
		return "ollama"
	}
	return k.Provider
}

// Filename returns the record file name for this key:
// <source>.p<page>.<doctype>.<provider>.json
func (k RecordKey) Filename() string {
	return fmt.Sprintf("%s.p%d.%s.%s.json", k.Source, k.Page, k.DocumentType, k.ProviderSuffix())
}

// FailureFilename returns the file name under which a recorded failure for
// this key is persisted.
func (k RecordKey) FailureFilename() string {
	return fmt.Sprintf("%s.p%d.%s.%s.failure.json", k.Source, k.Page, k.DocumentType, k.ProviderSuffix())
}

// ModelDir returns the per-model directory the record lives in.
func (k RecordKey) ModelDir() string {
	return SanitizeModelName(k.Model)
}

// ParseRecordFilename recovers a key from
// <source>.p<page>.<doctype>.<provider>.json. The source itself may contain
// dots, so parsing works from the right. Failure filenames do not parse as
// record keys.
func ParseRecordFilename(name string) (RecordKey, bool) {
	parts := strings.Split(name, ".")
	// source(>=1) + page + doctype + provider + "json"
	if len(parts) < 5 || parts[len(parts)-1] != "json" {
		return RecordKey{}, false
	}
	if parts[len(parts)-2] == "failure" {
		return RecordKey{}, false
	}
	provider := parts[len(parts)-2]
	docType, ok := KnownDocumentTypes[parts[len(parts)-3]]
	if !ok {
		return RecordKey{}, false
	}
	pageSeg := parts[len(parts)-4]
	if !strings.HasPrefix(pageSeg, "p") {
		return RecordKey{}, false
	}
	page, err := strconv.Atoi(pageSeg[1:])
	if err != nil || page < 1 {
		return RecordKey{}, false
	}
	source := strings.Join(parts[:len(parts)-4], ".")
	if source == "" {
		return RecordKey{}, false
	}
	return RecordKey{
		Source:       source,
		Page:         page,
		DocumentType: docType,
		Provider:     provider,
	}, true
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s p%d %s %s/%s", k.Source, k.Page, k.DocumentType, k.Provider, k.Model)
}

// ExtractionFailure is the tagged non-success outcome of one extraction.
// It is a recorded value, never silently coerced into an empty record: the
// Diagnostic field always carries the full raw payload (unparsed response
// text, captured process output) for operator inspection.
type ExtractionFailure struct {
	Reason     FailureReason `json:"reason"`
	Message    string        `json:"message"`
	Diagnostic string        `json:"diagnostic"`
	ExitCode   *int          `json:"exit_code,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func (f *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Reason, f.Message)
}

// NewFailure creates an ExtractionFailure with the occurrence time set.
func NewFailure(reason FailureReason, message, diagnostic string) *ExtractionFailure {
	return &ExtractionFailure{
		Reason:     reason,
		Message:    message,
		Diagnostic: diagnostic,
		OccurredAt: time.Now().UTC(),
	}
}

// ExtractionRecord is one page's parsed extraction result plus provenance.
// Fields holds valid structured data: parsing either fully succeeded or the
// whole attempt was recorded as an ExtractionFailure instead. There is no
// partially valid state.
type ExtractionRecord struct {
	Key         RecordKey
	Fields      map[string]any
	RawResponse string
	PromptUsed  string
	CreatedAt   time.Time
}

// RunEntry is one ledger row describing a processed batch unit.
type RunEntry struct {
	RunID      string    `db:"run_id" json:"run_id"`
	Source     string    `db:"source" json:"source"`
	Page       int       `db:"page" json:"page"`
	DocType    string    `db:"doc_type" json:"doc_type"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Status     RunStatus `db:"status" json:"status"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	DurationMS int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
