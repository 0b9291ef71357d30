package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

// BackupHandler serves the manual (on-demand) snapshot endpoints. These are
// independent of the operation log and never feed the undo engine.
type BackupHandler struct {
	Repo *repo.BackupRepo
}

// CreateBackup snapshots one row or a whole table.
// Body: {"table_name": "videos", "record_id": "..."} (record_id optional).
func (h *BackupHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TableName string `json:"table_name"`
		RecordID  string `json:"record_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	table, err := models.ParseTable(input.TableName)
	if err != nil {
		JSONError(w, "unknown table_name", http.StatusBadRequest)
		return
	}

	var count int64
	if input.RecordID != "" {
		count, err = h.Repo.SnapshotRow(r.Context(), table, input.RecordID)
	} else {
		count, err = h.Repo.SnapshotTable(r.Context(), table)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "record not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "count": count})
}

// ListBackups returns recent backups, newest first.
// Query: table_name (optional), limit (default 50, max 200).
func (h *BackupHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 50, 200)

	var table *models.Table
	if raw := r.URL.Query().Get("table_name"); raw != "" {
		t, err := models.ParseTable(raw)
		if err != nil {
			JSONError(w, "unknown table_name", http.StatusBadRequest)
			return
		}
		table = &t
	}

	entries, err := h.Repo.List(r.Context(), table, limit)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.BackupEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"backups": entries})
}
