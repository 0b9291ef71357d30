package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

const videoCols = "id, title, description, video_url, thumbnail_url, duration, category_id, views, published, created_at, updated_at"

func videoRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "video_url", "thumbnail_url",
		"duration", "category_id", "views", "published", "created_at", "updated_at",
	})
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "t-"+id, "", "http://v/"+id, "", "01:00", "cat-1", 0, true, now, now)
	}
	return rows
}

func TestVideoHandler_ListVideos(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT ` + videoCols + ` FROM videos ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(videoRows("v-2", "v-1"))

	h := &VideoHandler{Repo: repo.NewVideoRepo(db), Oplog: repo.NewOplogRepo(db)}

	req := httptest.NewRequest("GET", "/api/admin/videos?limit=2", nil)
	rr := httptest.NewRecorder()
	h.ListVideos(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListVideos status: got %d, want 200", rr.Code)
	}
	var out struct {
		Videos  []models.Video `json:"videos"`
		HasMore bool           `json:"hasMore"`
		LastID  *string        `json:"lastId"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Videos) != 2 || !out.HasMore {
		t.Errorf("unexpected page: %d videos, hasMore=%v", len(out.Videos), out.HasMore)
	}
	if out.LastID == nil || *out.LastID != "v-1" {
		t.Errorf("unexpected lastId: %v", out.LastID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestVideoHandler_CreateVideo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO videos`).
		WithArgs(sqlmock.AnyArg(), "New Video", "a description", "http://v/new", "", "00:00", "cat-1", 0, true).
		WillReturnRows(videoRows("v-new"))
	// Insert is logged so it can be undone; no snapshot for inserts.
	mock.ExpectExec(`INSERT INTO recent_operations`).
		WithArgs(sqlmock.AnyArg(), "videos", "insert", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM recent_operations WHERE created_at <`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &VideoHandler{Repo: repo.NewVideoRepo(db), Oplog: repo.NewOplogRepo(db)}

	body, _ := json.Marshal(map[string]any{
		"title":       "New Video",
		"description": "a description",
		"video_url":   "http://v/new",
		"category_id": "cat-1",
		"published":   true,
	})
	req := httptest.NewRequest("POST", "/api/admin/videos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateVideo(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("CreateVideo status: got %d, want 201", rr.Code)
	}
	var out struct {
		Success bool         `json:"success"`
		Video   models.Video `json:"video"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !out.Success || out.Video.ID != "v-new" {
		t.Errorf("unexpected response: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestVideoHandler_CreateVideo_ValidationFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &VideoHandler{Repo: repo.NewVideoRepo(db), Oplog: repo.NewOplogRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": ""})
	req := httptest.NewRequest("POST", "/api/admin/videos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateVideo(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreateVideo status: got %d, want 400", rr.Code)
	}
	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Error != "validation failed" {
		t.Errorf("unexpected error: %v", out.Error)
	}
	if out.Fields["title"] != "required" {
		t.Errorf("unexpected fields: %v", out.Fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestVideoHandler_DeleteVideo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT ` + videoCols + ` FROM videos WHERE id = \$1`).
		WithArgs("v-1").
		WillReturnRows(videoRows("v-1"))
	// The row is snapshotted before the delete so it can be restored.
	mock.ExpectQuery(`SELECT row_to_json\(t\) FROM videos t WHERE id = \$1`).
		WithArgs("v-1").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).AddRow([]byte(`{"id":"v-1"}`)))
	mock.ExpectExec(`INSERT INTO recent_operations`).
		WithArgs(sqlmock.AnyArg(), "videos", "delete", "v-1", []byte(`{"id":"v-1"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM recent_operations WHERE created_at <`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM videos WHERE id = \$1`).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &VideoHandler{Repo: repo.NewVideoRepo(db), Oplog: repo.NewOplogRepo(db)}

	req := httptest.NewRequest("DELETE", "/api/admin/videos?id=v-1", nil)
	rr := httptest.NewRecorder()
	h.DeleteVideo(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("DeleteVideo status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestVideoHandler_DeleteVideo_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT ` + videoCols + ` FROM videos WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(videoRows())

	h := &VideoHandler{Repo: repo.NewVideoRepo(db), Oplog: repo.NewOplogRepo(db)}

	req := httptest.NewRequest("DELETE", "/api/admin/videos?id=missing", nil)
	rr := httptest.NewRecorder()
	h.DeleteVideo(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("DeleteVideo status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "video not found" {
		t.Errorf("unexpected error body: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
