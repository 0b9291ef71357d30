package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/streamdesk/streamdesk/internal/ids"
	"github.com/streamdesk/streamdesk/internal/media"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

type VideoHandler struct {
	Repo  *repo.VideoRepo
	Oplog *repo.OplogRepo
	// Prober resolves duration for uploaded files. Optional; probe failures
	// never fail the create.
	Prober media.Prober
}

type videoListResponse struct {
	Videos  []models.Video `json:"videos"`
	HasMore bool           `json:"hasMore"`
	LastID  *string        `json:"lastId"`
}

// ListVideos returns one cursor page of videos, newest first.
// Query: limit (default 20, max 100), lastId (optional cursor).
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	lastID := r.URL.Query().Get("lastId")

	videos, more, last, err := h.Repo.ListPage(r.Context(), limit, lastID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}
	writeJSON(w, http.StatusOK, videoListResponse{Videos: videos, HasMore: more, LastID: last})
}

// CreateVideo inserts a video. When file_path is sent, the media prober
// fills in the duration; probe failure keeps the defaults.
func (h *VideoHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title        string `json:"title" validate:"required,min=1,max=255"`
		Description  string `json:"description" validate:"max=5000"`
		VideoURL     string `json:"video_url" validate:"max=2048"`
		ThumbnailURL string `json:"thumbnail_url" validate:"max=2048"`
		CategoryID   string `json:"category_id" validate:"max=64"`
		Published    bool   `json:"published"`
		FilePath     string `json:"file_path" validate:"max=1024"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	video := models.Video{
		ID:           ids.New(),
		Title:        input.Title,
		Description:  input.Description,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		Duration:     "00:00",
		CategoryID:   input.CategoryID,
		Published:    input.Published,
	}

	if input.FilePath != "" && h.Prober != nil {
		meta, err := h.Prober.Probe(r.Context(), input.FilePath)
		if err != nil {
			slog.Warn("video probe failed, using defaults", "file", input.FilePath, "error", err)
		} else {
			video.Duration = meta.Duration
			if meta.ThumbnailPath != "" {
				video.ThumbnailURL = meta.ThumbnailPath
			}
		}
	}

	created, err := h.Repo.Create(r.Context(), video)
	if err != nil {
		respondStoreError(w, err, "video not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableVideos, models.OpInsert, created.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "video": created})
}

// UpdateVideo rewrites a video's fields. The pre-update row is snapshotted
// to the operation log first so the change can be undone.
func (h *VideoHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID           string `json:"id" validate:"required"`
		Title        string `json:"title" validate:"required,min=1,max=255"`
		Description  string `json:"description" validate:"max=5000"`
		VideoURL     string `json:"video_url" validate:"max=2048"`
		ThumbnailURL string `json:"thumbnail_url" validate:"max=2048"`
		Duration     string `json:"duration" validate:"max=32"`
		CategoryID   string `json:"category_id" validate:"max=64"`
		Views        int64  `json:"views" validate:"min=0"`
		Published    bool   `json:"published"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.Get(r.Context(), input.ID); err != nil {
		respondStoreError(w, err, "video not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableVideos, models.OpUpdate, input.ID)

	updated, err := h.Repo.Update(r.Context(), models.Video{
		ID:           input.ID,
		Title:        input.Title,
		Description:  input.Description,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		Duration:     input.Duration,
		CategoryID:   input.CategoryID,
		Views:        input.Views,
		Published:    input.Published,
	})
	if err != nil {
		respondStoreError(w, err, "video not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "video": updated})
}

// DeleteVideo removes a video after snapshotting it to the operation log.
// Query: id.
func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		JSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.Get(r.Context(), id); err != nil {
		respondStoreError(w, err, "video not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableVideos, models.OpDelete, id)

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err, "video not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
