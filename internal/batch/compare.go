package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tradedocs/internal/diffreport"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
	"tradedocs/internal/schema"
)

// unitID identifies one extracted page independent of provider and model, so
// records produced by different transports still line up for comparison.
type unitID struct {
	Source  string
	Page    int
	DocType domain.DocumentType
}

func (u unitID) String() string {
	return fmt.Sprintf("%s.p%d.%s", u.Source, u.Page, u.DocType)
}

// CompareModels diffs every record the candidate model produced against the
// baseline model's record for the same page. Pages the baseline never
// extracted are logged and skipped; the report covers the overlap.
func CompareModels(ctx context.Context, store port.RecordStore, baselineDir, candidateDir string) (*diffreport.Report, error) {
	report := diffreport.NewReport(baselineDir, candidateDir)

	baseKeys, err := store.ListRecords(ctx, baselineDir)
	if err != nil {
		return nil, fmt.Errorf("listing baseline %s: %w", baselineDir, err)
	}
	baseline := make(map[unitID]domain.RecordKey, len(baseKeys))
	for _, k := range baseKeys {
		baseline[unitID{k.Source, k.Page, k.DocumentType}] = k
	}

	candKeys, err := store.ListRecords(ctx, candidateDir)
	if err != nil {
		return nil, fmt.Errorf("listing candidate %s: %w", candidateDir, err)
	}

	for _, candKey := range candKeys {
		unit := unitID{candKey.Source, candKey.Page, candKey.DocumentType}
		baseKey, ok := baseline[unit]
		if !ok {
			log.Printf("batch.CompareModels: %s has no %s counterpart, skipping", unit, baselineDir)
			continue
		}

		baseRec, err := store.Load(ctx, baseKey)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("loading baseline %s: %w", baseKey, err)
		}
		candRec, err := store.Load(ctx, candKey)
		if err != nil {
			return nil, fmt.Errorf("loading candidate %s: %w", candKey, err)
		}

		diffs := diffreport.Diff(schema.Normalize(baseRec.Fields), schema.Normalize(candRec.Fields))
		report.Add(unit.String(), diffs)
	}
	return report, nil
}

// WriteReportFiles writes the aggregate diff report into dir as
// <candidate>_vs_<baseline>.diff.json plus a markdown rendering, and returns
// both paths. Written exactly once per batch, after every unit is compared.
func WriteReportFiles(report *diffreport.Report, dir string) (jsonPath, mdPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report dir: %w", err)
	}
	base := fmt.Sprintf("%s_vs_%s.diff",
		domain.SanitizeModelName(report.CandidateModel),
		domain.SanitizeModelName(report.BaselineModel))

	jsonPath = filepath.Join(dir, base+".json")
	jf, err := os.Create(jsonPath)
	if err != nil {
		return "", "", fmt.Errorf("creating %s: %w", jsonPath, err)
	}
	defer func() { _ = jf.Close() }()
	if err := report.WriteJSON(jf); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	mdPath = filepath.Join(dir, base+".md")
	mf, err := os.Create(mdPath)
	if err != nil {
		return "", "", fmt.Errorf("creating %s: %w", mdPath, err)
	}
	defer func() { _ = mf.Close() }()
	if err := report.WriteMarkdown(mf); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", mdPath, err)
	}

	return jsonPath, mdPath, nil
}
