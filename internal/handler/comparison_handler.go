package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradedocs/internal/batch"
	"tradedocs/internal/export"
	"tradedocs/internal/port"
	"tradedocs/internal/schema"
)

// ComparisonHandler serves cross-model diffs and comparison tables computed
// on demand from the record store.
type ComparisonHandler struct {
	store port.RecordStore
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(store port.RecordStore) *ComparisonHandler {
	return &ComparisonHandler{store: store}
}

// GetDiff handles GET /api/v1/compare/diff?baseline=<model>&candidate=<model>
// Responds with the aggregate diff report as JSON, or as markdown when
// format=markdown.
func (h *ComparisonHandler) GetDiff(c *gin.Context) {
	baseline := c.Query("baseline")
	candidate := c.Query("candidate")
	if baseline == "" || candidate == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_MODEL",
			"both baseline and candidate model directories are required")
		return
	}

	report, err := batch.CompareModels(c.Request.Context(), h.store, baseline, candidate)
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") == "markdown" {
		var buf bytes.Buffer
		if err := report.WriteMarkdown(&buf); err != nil {
			HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
		return
	}
	RespondOK(c, report)
}

// tableRow is the JSON view of one comparison table row.
type tableRow struct {
	Field   string   `json:"field"`
	LabelCN string   `json:"label_cn"`
	Cells   []string `json:"cells"`
}

// tableDTO is the JSON view of one cross-model comparison table.
type tableDTO struct {
	SourceID string     `json:"source_id"`
	Models   []string   `json:"models"`
	Rows     []tableRow `json:"rows"`
}

// GetTables handles GET /api/v1/compare/tables?models=<a>,<b>[,...]
// Default is JSON; format=markdown, format=csv, and format=xlsx render the
// same tables in the requested format.
func (h *ComparisonHandler) GetTables(c *gin.Context) {
	var models []string
	for _, m := range strings.Split(c.Query("models"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	if len(models) < 2 {
		RespondError(c, http.StatusBadRequest, "MISSING_MODEL",
			"models must name at least two comma-separated model directories")
		return
	}

	tables, err := batch.BuildTables(c.Request.Context(), h.store, models)
	if err != nil {
		HandleError(c, err)
		return
	}

	switch c.Query("format") {
	case "", "json":
		dtos := make([]tableDTO, 0, len(tables))
		for _, t := range tables {
			dto := tableDTO{SourceID: t.SourceID, Models: models, Rows: make([]tableRow, 0, len(t.Rows))}
			for _, row := range t.Rows {
				dto.Rows = append(dto.Rows, tableRow{
					Field:   row.Field.String(),
					LabelCN: schema.DisplayNameCN(row.Field),
					Cells:   row.Cells,
				})
			}
			dtos = append(dtos, dto)
		}
		RespondOK(c, gin.H{"tables": dtos})
	case "markdown":
		var buf bytes.Buffer
		for i, t := range tables {
			if i > 0 {
				buf.WriteString("\n")
			}
			if err := t.WriteMarkdown(&buf); err != nil {
				HandleError(c, err)
				return
			}
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
	case "csv":
		var buf bytes.Buffer
		for _, t := range tables {
			if err := t.WriteCSV(&buf); err != nil {
				HandleError(c, err)
				return
			}
		}
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteWorkbook(&buf, tables); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="comparison.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT",
			"format must be one of json, markdown, csv, xlsx")
	}
}
