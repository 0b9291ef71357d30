package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamdesk/streamdesk/internal/ids"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

type UserHandler struct {
	Repo  *repo.UserRepo
	Oplog *repo.OplogRepo
}

type userListResponse struct {
	Users   []models.User `json:"users"`
	HasMore bool          `json:"hasMore"`
	LastID  *string       `json:"lastId"`
}

// ListUsers returns one cursor page of users, newest first.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	lastID := r.URL.Query().Get("lastId")

	users, more, last, err := h.Repo.ListPage(r.Context(), limit, lastID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, userListResponse{Users: users, HasMore: more, LastID: last})
}

// CreateUser inserts a user with a bcrypt-hashed password.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username    string `json:"username" validate:"required,min=2,max=64"`
		Password    string `json:"password" validate:"omitempty,min=8,max=128"`
		Role        string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
		DisplayName string `json:"display_name" validate:"max=128"`
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

	hash := ""
	if input.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		hash = string(h)
	}

	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}

	created, err := h.Repo.Create(r.Context(), models.User{
		ID:           ids.New(),
		Username:     input.Username,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  input.DisplayName,
	})
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableUsers, models.OpInsert, created.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": created})
}

// UpdateUser rewrites a user's fields, snapshotting the old row first.
// An empty password leaves the stored hash untouched.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID          string `json:"id" validate:"required"`
		Username    string `json:"username" validate:"required,min=2,max=64"`
		Password    string `json:"password" validate:"omitempty,min=8,max=128"`
		Role        string `json:"role" validate:"required,oneof=admin editor viewer"`
		DisplayName string `json:"display_name" validate:"max=128"`
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
		respondStoreError(w, err, "user not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableUsers, models.OpUpdate, input.ID)

	hash := ""
	if input.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		hash = string(b)
	}

	updated, err := h.Repo.Update(r.Context(), models.User{
		ID:           input.ID,
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		DisplayName:  input.DisplayName,
	})
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": updated})
}

// DeleteUser removes a user after snapshotting. Query: id.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		JSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.Get(r.Context(), id); err != nil {
		respondStoreError(w, err, "user not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableUsers, models.OpDelete, id)

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
