package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/config"
	"tradedocs/internal/domain"
)

const testSchema = `
CREATE TABLE run_ledger (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL,
    source      TEXT NOT NULL,
    page        INTEGER NOT NULL,
    doc_type    TEXT NOT NULL,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    status      TEXT NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL
);`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := &config.LedgerConfig{
		Path:    filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpen: 1,
		MaxIdle: 1,
	}
	db, err := NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func entry(runID string, source string, page int, status domain.RunStatus, at time.Time) *domain.RunEntry {
	return &domain.RunEntry{
		RunID:      runID,
		Source:     source,
		Page:       page,
		DocType:    "declaration",
		Provider:   "ollama",
		Model:      "qwen3-vl:32b",
		Status:     status,
		DurationMS: 1500,
		CreatedAt:  at,
	}
}

func TestRunLedger_RecordAndListBySource(t *testing.T) {
	repo := NewRunLedgerRepo(newTestDB(t))
	ctx := context.Background()
	runID := uuid.NewString()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, entry(runID, "decl.pdf", 2, domain.RunStatusSaved, base.Add(time.Minute))))
	require.NoError(t, repo.Record(ctx, entry(runID, "decl.pdf", 1, domain.RunStatusSaved, base)))
	require.NoError(t, repo.Record(ctx, entry(runID, "other.pdf", 1, domain.RunStatusSkipped, base)))

	entries, err := repo.ListBySource(ctx, "decl.pdf")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Page)
	assert.Equal(t, 2, entries[1].Page)
	assert.Equal(t, runID, entries[0].RunID)
}

func TestRunLedger_ListByStatus(t *testing.T) {
	repo := NewRunLedgerRepo(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	failed := entry(uuid.NewString(), "broken.pdf", 1, domain.RunStatusFailed, base)
	failed.Reason = "timeout"
	require.NoError(t, repo.Record(ctx, failed))
	require.NoError(t, repo.Record(ctx, entry(uuid.NewString(), "decl.pdf", 1, domain.RunStatusSaved, base)))

	entries, err := repo.ListByStatus(ctx, domain.RunStatusFailed, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "broken.pdf", entries[0].Source)
	assert.Equal(t, "timeout", entries[0].Reason)
}
