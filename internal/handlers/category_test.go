package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/streamdesk/streamdesk/internal/repo"
)

func reorderBody(ids ...string) []byte {
	type item struct {
		ID string `json:"id"`
	}
	items := make([]item, 0, len(ids))
	for _, id := range ids {
		items = append(items, item{ID: id})
	}
	body, _ := json.Marshal(map[string]any{"categories": items})
	return body
}

func TestCategoryHandler_ReorderCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(0, "c").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(1, "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(2, "b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := &CategoryHandler{Repo: repo.NewCategoryRepo(db), Oplog: repo.NewOplogRepo(db)}

	req := httptest.NewRequest("POST", "/api/admin/categories/reorder", bytes.NewReader(reorderBody("c", "a", "b")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ReorderCategories(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ReorderCategories status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryHandler_ReorderCategories_MissingID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(0, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	h := &CategoryHandler{Repo: repo.NewCategoryRepo(db), Oplog: repo.NewOplogRepo(db)}

	req := httptest.NewRequest("POST", "/api/admin/categories/reorder", bytes.NewReader(reorderBody("gone", "a")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ReorderCategories(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("ReorderCategories status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "category not found" {
		t.Errorf("unexpected error body: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryHandler_ReorderCategories_EmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &CategoryHandler{Repo: repo.NewCategoryRepo(db), Oplog: repo.NewOplogRepo(db)}

	req := httptest.NewRequest("POST", "/api/admin/categories/reorder", bytes.NewReader([]byte(`{"categories":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ReorderCategories(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("ReorderCategories status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
