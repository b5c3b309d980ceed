package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradedocs/internal/domain"
	"tradedocs/internal/port"
)

// RunHandler serves the run ledger.
type RunHandler struct {
	ledger port.RunLedger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(ledger port.RunLedger) *RunHandler {
	return &RunHandler{ledger: ledger}
}

// ListRuns handles GET /api/v1/runs?source=...  and GET /api/v1/runs?status=...&limit=N
func (h *RunHandler) ListRuns(c *gin.Context) {
	if source := c.Query("source"); source != "" {
		entries, err := h.ledger.ListBySource(c.Request.Context(), source)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, gin.H{"runs": entries})
		return
	}

	status := domain.RunStatus(c.DefaultQuery("status", string(domain.RunStatusFailed)))
	switch status {
	case domain.RunStatusSaved, domain.RunStatusSkipped, domain.RunStatusFailed:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_STATUS",
			"status must be one of saved, skipped, failed")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
		return
	}

	entries, err := h.ledger.ListByStatus(c.Request.Context(), status, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"runs": entries})
}
