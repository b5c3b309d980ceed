// Package store persists extraction outcomes on the local filesystem, one
// JSON file per record key under a per-model directory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

// recordFile is the on-disk envelope for a successful extraction.
type recordFile struct {
	Fields      map[string]any `json:"fields"`
	RawResponse string         `json:"raw_response"`
	PromptUsed  string         `json:"prompt_used"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FileStore implements port.RecordStore on a directory tree rooted at root.
// Layout: <root>/<sanitized model>/<source>.p<page>.<doctype>.<provider>.json,
// with failures beside records as ...<provider>.failure.json.
type FileStore struct {
	root string
}

// NewFileStore creates the store root if needed. An uncreatable root is the
// one fatal store condition: nothing can be persisted, so the caller should
// abort rather than extract into the void.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating root %s: %v", domain.ErrStoreUnavailable, root, err)
	}
	return &FileStore{root: root}, nil
}

var _ port.RecordStore = (*FileStore)(nil)

func (s *FileStore) recordPath(key domain.RecordKey) string {
	return filepath.Join(s.root, key.ModelDir(), key.Filename())
}

func (s *FileStore) failurePath(key domain.RecordKey) string {
	return filepath.Join(s.root, key.ModelDir(), key.FailureFilename())
}

// Exists reports whether any outcome is stored for the key: a prior failure
// counts, so skip mode does not silently retry known-bad inputs.
func (s *FileStore) Exists(_ context.Context, key domain.RecordKey) (bool, error) {
	for _, p := range []string{s.recordPath(key), s.failurePath(key)} {
		if _, err := os.Stat(p); err == nil {
			return true, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return false, nil
}

// Save writes a record, replacing any previous record or failure for the key.
func (s *FileStore) Save(_ context.Context, rec *domain.ExtractionRecord) error {
	if err := s.ensureModelDir(rec.Key); err != nil {
		return err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	payload := recordFile{
		Fields:      rec.Fields,
		RawResponse: rec.RawResponse,
		PromptUsed:  rec.PromptUsed,
		CreatedAt:   created,
	}
	if err := writeJSON(s.recordPath(rec.Key), payload); err != nil {
		return err
	}
	// A fresh success supersedes any recorded failure.
	if err := os.Remove(s.failurePath(rec.Key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale failure: %w", err)
	}
	return nil
}

// SaveFailure writes a failure outcome, replacing any previous outcome.
func (s *FileStore) SaveFailure(_ context.Context, key domain.RecordKey, failure *domain.ExtractionFailure) error {
	if err := s.ensureModelDir(key); err != nil {
		return err
	}
	if err := writeJSON(s.failurePath(key), failure); err != nil {
		return err
	}
	if err := os.Remove(s.recordPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale record: %w", err)
	}
	return nil
}

// SaveSidecar writes a derived artifact beside the record, named by swapping
// the record's .json extension for ext (".md", ".chi.md").
func (s *FileStore) SaveSidecar(_ context.Context, key domain.RecordKey, ext string, data []byte) error {
	if err := s.ensureModelDir(key); err != nil {
		return err
	}
	name := strings.TrimSuffix(key.Filename(), ".json") + ext
	path := filepath.Join(s.root, key.ModelDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load retrieves a successful record for the key.
func (s *FileStore) Load(_ context.Context, key domain.RecordKey) (*domain.ExtractionRecord, error) {
	raw, err := os.ReadFile(s.recordPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var payload recordFile
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", key, err)
	}
	return &domain.ExtractionRecord{
		Key:         key,
		Fields:      payload.Fields,
		RawResponse: payload.RawResponse,
		PromptUsed:  payload.PromptUsed,
		CreatedAt:   payload.CreatedAt,
	}, nil
}

// LoadFailure retrieves a recorded failure for the key.
func (s *FileStore) LoadFailure(_ context.Context, key domain.RecordKey) (*domain.ExtractionFailure, error) {
	raw, err := os.ReadFile(s.failurePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading failure: %w", err)
	}
	var failure domain.ExtractionFailure
	if err := json.Unmarshal(raw, &failure); err != nil {
		return nil, fmt.Errorf("decoding failure %s: %w", key, err)
	}
	return &failure, nil
}

// ListModels returns the per-model directories under the root in lexical order.
func (s *FileStore) ListModels(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading root: %v", domain.ErrStoreUnavailable, err)
	}
	var models []string
	for _, e := range entries {
		if e.IsDir() {
			models = append(models, e.Name())
		}
	}
	sort.Strings(models)
	return models, nil
}

// ListRecords returns keys for every successful record under one model
// directory, in lexical filename order. Failure files are not listed.
func (s *FileStore) ListRecords(_ context.Context, modelDir string) ([]domain.RecordKey, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, modelDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading model dir %s: %w", modelDir, err)
	}

	var keys []domain.RecordKey
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := domain.ParseRecordFilename(e.Name())
		if !ok {
			continue
		}
		key.Model = modelDir
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Filename() < keys[j].Filename()
	})
	return keys, nil
}

func (s *FileStore) ensureModelDir(key domain.RecordKey) error {
	dir := filepath.Join(s.root, key.ModelDir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", domain.ErrStoreUnavailable, dir, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
