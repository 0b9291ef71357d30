package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/streamdesk/streamdesk/internal/ids"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

type CategoryHandler struct {
	Repo  *repo.CategoryRepo
	Oplog *repo.OplogRepo
}

type categoryListResponse struct {
	Categories []models.Category `json:"categories"`
	HasMore    bool              `json:"hasMore"`
	LastID     *string           `json:"lastId"`
}

// ListCategories returns one cursor page of categories in manual order.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	lastID := r.URL.Query().Get("lastId")

	cats, more, last, err := h.Repo.ListPage(r.Context(), limit, lastID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categoryListResponse{Categories: cats, HasMore: more, LastID: last})
}

// CreateCategory inserts a category.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string `json:"name" validate:"required,min=1,max=128"`
		Slug      string `json:"slug" validate:"required,min=1,max=128"`
		SortOrder int    `json:"sort_order" validate:"min=0"`
		Active    *bool  `json:"active"`
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

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	created, err := h.Repo.Create(r.Context(), models.Category{
		ID:        ids.New(),
		Name:      input.Name,
		Slug:      input.Slug,
		SortOrder: input.SortOrder,
		Active:    active,
	})
	if err != nil {
		respondStoreError(w, err, "category not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableCategories, models.OpInsert, created.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "category": created})
}

// UpdateCategory rewrites a category's fields, snapshotting the old row first.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID        string `json:"id" validate:"required"`
		Name      string `json:"name" validate:"required,min=1,max=128"`
		Slug      string `json:"slug" validate:"required,min=1,max=128"`
		SortOrder int    `json:"sort_order" validate:"min=0"`
		Active    bool   `json:"active"`
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
		respondStoreError(w, err, "category not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableCategories, models.OpUpdate, input.ID)

	updated, err := h.Repo.Update(r.Context(), models.Category{
		ID:        input.ID,
		Name:      input.Name,
		Slug:      input.Slug,
		SortOrder: input.SortOrder,
		Active:    input.Active,
	})
	if err != nil {
		respondStoreError(w, err, "category not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "category": updated})
}

// DeleteCategory removes a category after snapshotting. Query: id.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		JSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.Get(r.Context(), id); err != nil {
		respondStoreError(w, err, "category not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableCategories, models.OpDelete, id)

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err, "category not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ReorderCategories persists a wholesale sort_order rewrite: the client
// submits the full list in its new order and each element's position becomes
// its sort_order. All-or-nothing; a missing id rolls the whole batch back.
func (h *CategoryHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Categories []struct {
			ID string `json:"id"`
		} `json:"categories"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(input.Categories) == 0 {
		JSONError(w, "categories is required", http.StatusBadRequest)
		return
	}

	orderedIDs := make([]string, 0, len(input.Categories))
	for _, c := range input.Categories {
		if c.ID == "" {
			JSONError(w, "category id is required", http.StatusBadRequest)
			return
		}
		orderedIDs = append(orderedIDs, c.ID)
	}

	if err := h.Repo.Reorder(r.Context(), orderedIDs); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "category not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
