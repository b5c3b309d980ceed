package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

// RecordHandler serves stored extraction outcomes.
type RecordHandler struct {
	store port.RecordStore
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(store port.RecordStore) *RecordHandler {
	return &RecordHandler{store: store}
}

// recordSummary is the listing view of one stored record.
type recordSummary struct {
	Filename     string `json:"filename"`
	Source       string `json:"source"`
	Page         int    `json:"page"`
	DocumentType string `json:"document_type"`
	Provider     string `json:"provider"`
}

// recordDetail is the full view of one stored record.
type recordDetail struct {
	recordSummary
	Model       string         `json:"model"`
	Fields      map[string]any `json:"fields"`
	RawResponse string         `json:"raw_response"`
	PromptUsed  string         `json:"prompt_used"`
	CreatedAt   string         `json:"created_at"`
}

// ListModels handles GET /api/v1/models
func (h *RecordHandler) ListModels(c *gin.Context) {
	models, err := h.store.ListModels(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"models": models})
}

// ListRecords handles GET /api/v1/models/:model/records
func (h *RecordHandler) ListRecords(c *gin.Context) {
	model := c.Param("model")
	keys, err := h.store.ListRecords(c.Request.Context(), model)
	if err != nil {
		HandleError(c, err)
		return
	}

	records := make([]recordSummary, 0, len(keys))
	for _, k := range keys {
		records = append(records, recordSummary{
			Filename:     k.Filename(),
			Source:       k.Source,
			Page:         k.Page,
			DocumentType: string(k.DocumentType),
			Provider:     k.Provider,
		})
	}
	RespondOK(c, gin.H{"model": model, "records": records})
}

// GetRecord handles GET /api/v1/models/:model/records/:name
func (h *RecordHandler) GetRecord(c *gin.Context) {
	key, ok := h.keyFromPath(c)
	if !ok {
		return
	}

	rec, err := h.store.Load(c.Request.Context(), key)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, recordDetail{
		recordSummary: recordSummary{
			Filename:     key.Filename(),
			Source:       key.Source,
			Page:         key.Page,
			DocumentType: string(key.DocumentType),
			Provider:     key.Provider,
		},
		Model:       key.Model,
		Fields:      rec.Fields,
		RawResponse: rec.RawResponse,
		PromptUsed:  rec.PromptUsed,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	})
}

// GetFailure handles GET /api/v1/models/:model/records/:name/failure
func (h *RecordHandler) GetFailure(c *gin.Context) {
	key, ok := h.keyFromPath(c)
	if !ok {
		return
	}

	failure, err := h.store.LoadFailure(c.Request.Context(), key)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, failure)
}

func (h *RecordHandler) keyFromPath(c *gin.Context) (domain.RecordKey, bool) {
	key, ok := domain.ParseRecordFilename(c.Param("name"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_RECORD_NAME",
			"record name must look like <source>.p<page>.<doctype>.<provider>.json")
		return domain.RecordKey{}, false
	}
	key.Model = c.Param("model")
	return key, true
}
