package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

type runLedgerRepo struct {
	db *sqlx.DB
}

// NewRunLedgerRepo creates a SQLite-backed RunLedger.
func NewRunLedgerRepo(db *sqlx.DB) port.RunLedger {
	return &runLedgerRepo{db: db}
}

func (r *runLedgerRepo) Record(ctx context.Context, entry *domain.RunEntry) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO run_ledger (run_id, source, page, doc_type, provider, model, status, reason, duration_ms, created_at)
		 VALUES (:run_id, :source, :page, :doc_type, :provider, :model, :status, :reason, :duration_ms, :created_at)`,
		entry)
	return err
}

func (r *runLedgerRepo) ListBySource(ctx context.Context, source string) ([]domain.RunEntry, error) {
	var entries []domain.RunEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT run_id, source, page, doc_type, provider, model, status, reason, duration_ms, created_at
		 FROM run_ledger
		 WHERE source = ?
		 ORDER BY created_at, page`, source)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *runLedgerRepo) ListByStatus(ctx context.Context, status domain.RunStatus, limit int) ([]domain.RunEntry, error) {
	var entries []domain.RunEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT run_id, source, page, doc_type, provider, model, status, reason, duration_ms, created_at
		 FROM run_ledger
		 WHERE status = ?
		 ORDER BY created_at DESC
		 LIMIT ?`, status, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
