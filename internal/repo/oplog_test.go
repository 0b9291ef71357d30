package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/streamdesk/streamdesk/internal/models"
)

func TestOplogRepo_Record_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	snapshot := []byte(`{"id":"v-1","title":"old"}`)
	mock.ExpectQuery(`SELECT row_to_json\(t\) FROM videos t WHERE id = \$1`).
		WithArgs("v-1").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).AddRow(snapshot))
	mock.ExpectExec(`INSERT INTO recent_operations \(id, table_name, operation_type, record_id, old_data\)`).
		WithArgs(sqlmock.AnyArg(), "videos", "delete", "v-1", snapshot).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM recent_operations WHERE created_at < NOW\(\) - INTERVAL '24 hours'`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewOplogRepo(db)
	if err := repo.Record(context.Background(), models.TableVideos, models.OpDelete, "v-1"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestOplogRepo_Record_Insert_NoSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO recent_operations \(id, table_name, operation_type, record_id, old_data\)`).
		WithArgs(sqlmock.AnyArg(), "articles", "insert", "a-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM recent_operations WHERE created_at < NOW\(\) - INTERVAL '24 hours'`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewOplogRepo(db)
	if err := repo.Record(context.Background(), models.TableArticles, models.OpInsert, "a-1"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestOplogRepo_Record_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT row_to_json\(t\) FROM users t WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewOplogRepo(db)
	err = repo.Record(context.Background(), models.TableUsers, models.OpUpdate, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestOplogRepo_ListRecent_TableFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, table_name, operation_type, COALESCE\(record_id, ''\), old_data, created_at FROM recent_operations\s+WHERE created_at > NOW\(\) - INTERVAL '24 hours' AND table_name = \$1`).
		WithArgs("videos", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "table_name", "operation_type", "record_id", "old_data", "created_at"}).
			AddRow("log-1", "videos", "delete", "v-1", []byte(`{"id":"v-1"}`), now))

	repo := NewOplogRepo(db)
	table := models.TableVideos
	logs, err := repo.ListRecent(context.Background(), &table, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "log-1" || logs[0].OperationType != models.OpDelete {
		t.Errorf("unexpected logs: %+v", logs)
	}
	if string(logs[0].OldData) != `{"id":"v-1"}` {
		t.Errorf("unexpected old_data: %s", logs[0].OldData)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestOplogRepo_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM recent_operations WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewOplogRepo(db)
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestOplogRepo_PurgeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM recent_operations WHERE created_at < NOW\(\) - INTERVAL '24 hours'`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewOplogRepo(db)
	n, err := repo.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 3 {
		t.Errorf("purged = %d, want 3", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
