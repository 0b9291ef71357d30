package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
	"github.com/streamdesk/streamdesk/internal/undo"
)

// UndoHandler serves the operation-log listing and replay endpoints.
type UndoHandler struct {
	Oplog  *repo.OplogRepo
	Engine *undo.Engine
}

// ListOperations returns replayable log entries, newest first.
// Query: table_name (optional filter), limit (default 10, max 100).
func (h *UndoHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 10, 100)

	var table *models.Table
	if raw := r.URL.Query().Get("table_name"); raw != "" {
		t, err := models.ParseTable(raw)
		if err != nil {
			JSONError(w, "unknown table_name", http.StatusBadRequest)
			return
		}
		table = &t
	}

	logs, err := h.Oplog.ListRecent(r.Context(), table, limit)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []models.OperationLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// ApplyUndo replays one log entry and purges it. Body: {"log_id": "..."}.
// A replay that hits a storage constraint leaves the entry in place so it
// can be retried.
func (h *UndoHandler) ApplyUndo(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LogID string `json:"log_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.LogID == "" {
		JSONError(w, "log_id is required", http.StatusBadRequest)
		return
	}

	if err := h.Engine.Undo(r.Context(), input.LogID); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			JSONError(w, "log entry not found", http.StatusNotFound)
		case repo.IsConstraint(err):
			JSONError(w, ErrMessageConstraint, http.StatusInternalServerError)
		default:
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
