package port

import (
	"context"

	"tradedocs/internal/domain"
)

// RecordStore persists extraction results and failures keyed by
// source/page/document-type/provider/model.
type RecordStore interface {
	// Exists reports whether any outcome (record or failure) is stored
	// for the key.
	Exists(ctx context.Context, key domain.RecordKey) (bool, error)
	// Save stores a successful extraction record, overwriting any
	// previous outcome for its key.
	Save(ctx context.Context, rec *domain.ExtractionRecord) error
	// SaveFailure stores a failed extraction outcome, overwriting any
	// previous outcome for the key.
	SaveFailure(ctx context.Context, key domain.RecordKey, failure *domain.ExtractionFailure) error
	// Load retrieves a successful record; domain.ErrRecordNotFound when
	// the key has no stored record.
	Load(ctx context.Context, key domain.RecordKey) (*domain.ExtractionRecord, error)
	// LoadFailure retrieves a recorded failure; domain.ErrRecordNotFound
	// when the key has no stored failure.
	LoadFailure(ctx context.Context, key domain.RecordKey) (*domain.ExtractionFailure, error)
	// SaveSidecar stores a derived artifact (markdown summary, etc.)
	// beside the record, replacing the key's .json extension with ext.
	SaveSidecar(ctx context.Context, key domain.RecordKey, ext string, data []byte) error
	// ListModels returns the model directories present under the store
	// root, in lexical order.
	ListModels(ctx context.Context) ([]string, error)
	// ListRecords returns the record keys stored for one model directory.
	ListRecords(ctx context.Context, modelDir string) ([]domain.RecordKey, error)
}
