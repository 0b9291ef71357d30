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

type SidebarHandler struct {
	Repo  *repo.SidebarRepo
	Oplog *repo.OplogRepo
}

// ListItems returns every sidebar item in manual order.
func (h *SidebarHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListAll(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.SidebarItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// CreateItem inserts a sidebar item.
func (h *SidebarHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Label     string `json:"label" validate:"required,min=1,max=128"`
		Href      string `json:"href" validate:"max=2048"`
		Icon      string `json:"icon" validate:"max=128"`
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

	created, err := h.Repo.Create(r.Context(), models.SidebarItem{
		ID:        ids.New(),
		Label:     input.Label,
		Href:      input.Href,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
		Active:    active,
	})
	if err != nil {
		respondStoreError(w, err, "sidebar item not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableSidebarItems, models.OpInsert, created.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "item": created})
}

// UpdateItem rewrites a sidebar item's fields, snapshotting the old row first.
func (h *SidebarHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID        string `json:"id" validate:"required"`
		Label     string `json:"label" validate:"required,min=1,max=128"`
		Href      string `json:"href" validate:"max=2048"`
		Icon      string `json:"icon" validate:"max=128"`
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
		respondStoreError(w, err, "sidebar item not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableSidebarItems, models.OpUpdate, input.ID)

	updated, err := h.Repo.Update(r.Context(), models.SidebarItem{
		ID:        input.ID,
		Label:     input.Label,
		Href:      input.Href,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
		Active:    input.Active,
	})
	if err != nil {
		respondStoreError(w, err, "sidebar item not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "item": updated})
}

// DeleteItem removes a sidebar item after snapshotting. Query: id.
func (h *SidebarHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		JSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.Get(r.Context(), id); err != nil {
		respondStoreError(w, err, "sidebar item not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableSidebarItems, models.OpDelete, id)

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err, "sidebar item not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ReorderItems persists a wholesale sort_order rewrite for the sidebar,
// same contract as category reorder.
func (h *SidebarHandler) ReorderItems(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(input.Items) == 0 {
		JSONError(w, "items is required", http.StatusBadRequest)
		return
	}

	orderedIDs := make([]string, 0, len(input.Items))
	for _, it := range input.Items {
		if it.ID == "" {
			JSONError(w, "item id is required", http.StatusBadRequest)
			return
		}
		orderedIDs = append(orderedIDs, it.ID)
	}

	if err := h.Repo.Reorder(r.Context(), orderedIDs); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "sidebar item not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
