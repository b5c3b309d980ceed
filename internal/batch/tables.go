package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tradedocs/internal/comparison"
	"tradedocs/internal/domain"
	"tradedocs/internal/port"
	"tradedocs/internal/schema"
)

// BuildTables assembles one comparison table per extracted page across the
// given model directories. Column order follows the models argument; a model
// with no record for a page gets the missing-record marker in every cell.
func BuildTables(ctx context.Context, store port.RecordStore, models []string) ([]*comparison.Table, error) {
	if len(models) < 2 {
		return nil, fmt.Errorf("need at least two models to compare, got %d", len(models))
	}

	// Union of units across all models, with each model's key for the unit.
	keysByModel := make([]map[unitID]domain.RecordKey, len(models))
	units := map[unitID]struct{}{}
	for i, model := range models {
		keys, err := store.ListRecords(ctx, model)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", model, err)
		}
		keysByModel[i] = make(map[unitID]domain.RecordKey, len(keys))
		for _, k := range keys {
			unit := unitID{k.Source, k.Page, k.DocumentType}
			keysByModel[i][unit] = k
			units[unit] = struct{}{}
		}
	}

	ordered := make([]unitID, 0, len(units))
	for u := range units {
		ordered = append(ordered, u)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Source != ordered[j].Source {
			return ordered[i].Source < ordered[j].Source
		}
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		return ordered[i].DocType < ordered[j].DocType
	})

	tables := make([]*comparison.Table, 0, len(ordered))
	for _, unit := range ordered {
		cols := make([]comparison.Column, len(models))
		for i, model := range models {
			cols[i] = comparison.Column{Model: model}
			key, ok := keysByModel[i][unit]
			if !ok {
				continue
			}
			rec, err := store.Load(ctx, key)
			if err != nil {
				if errors.Is(err, domain.ErrRecordNotFound) {
					continue
				}
				return nil, fmt.Errorf("loading %s: %w", key, err)
			}
			cols[i].Record = schema.Normalize(rec.Fields)
		}
		tables = append(tables, comparison.Build(unit.String(), cols))
	}
	return tables, nil
}
