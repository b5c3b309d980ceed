package port

import (
	"context"

	"tradedocs/internal/domain"
)

// RunLedger records per-extraction run outcomes for later inspection. The
// ledger is bookkeeping only; extraction results themselves live in the
// RecordStore.
type RunLedger interface {
	Record(ctx context.Context, entry *domain.RunEntry) error
	ListBySource(ctx context.Context, source string) ([]domain.RunEntry, error)
	ListByStatus(ctx context.Context, status domain.RunStatus, limit int) ([]domain.RunEntry, error)
}
