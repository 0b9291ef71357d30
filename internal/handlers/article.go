package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/streamdesk/streamdesk/internal/ids"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

type ArticleHandler struct {
	Repo  *repo.ArticleRepo
	Oplog *repo.OplogRepo
}

type articleListResponse struct {
	Articles []models.Article `json:"articles"`
	HasMore  bool             `json:"hasMore"`
	LastID   *string          `json:"lastId"`
}

// ListArticles returns one cursor page of articles, newest first.
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 20, 100)
	lastID := r.URL.Query().Get("lastId")

	articles, more, last, err := h.Repo.ListPage(r.Context(), limit, lastID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	writeJSON(w, http.StatusOK, articleListResponse{Articles: articles, HasMore: more, LastID: last})
}

// CreateArticle inserts an article.
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title     string `json:"title" validate:"required,min=1,max=255"`
		Slug      string `json:"slug" validate:"required,min=1,max=255"`
		Content   string `json:"content"`
		AuthorID  string `json:"author_id" validate:"max=64"`
		Published bool   `json:"published"`
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

	created, err := h.Repo.Create(r.Context(), models.Article{
		ID:        ids.New(),
		Title:     input.Title,
		Slug:      input.Slug,
		Content:   input.Content,
		AuthorID:  input.AuthorID,
		Published: input.Published,
	})
	if err != nil {
		respondStoreError(w, err, "article not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableArticles, models.OpInsert, created.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "article": created})
}

// UpdateArticle rewrites an article's fields, snapshotting the old row first.
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID        string `json:"id" validate:"required"`
		Title     string `json:"title" validate:"required,min=1,max=255"`
		Slug      string `json:"slug" validate:"required,min=1,max=255"`
		Content   string `json:"content"`
		AuthorID  string `json:"author_id" validate:"max=64"`
		Published bool   `json:"published"`
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
		respondStoreError(w, err, "article not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableArticles, models.OpUpdate, input.ID)

	updated, err := h.Repo.Update(r.Context(), models.Article{
		ID:        input.ID,
		Title:     input.Title,
		Slug:      input.Slug,
		Content:   input.Content,
		AuthorID:  input.AuthorID,
		Published: input.Published,
	})
	if err != nil {
		respondStoreError(w, err, "article not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "article": updated})
}

// DeleteArticle removes an article after snapshotting. Query: id.
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		JSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.Get(r.Context(), id); err != nil {
		respondStoreError(w, err, "article not found")
		return
	}

	recordBackup(r.Context(), h.Oplog, models.TableArticles, models.OpDelete, id)

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err, "article not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
