package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func categoryRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "slug", "sort_order", "active", "created_at", "updated_at",
	})
	now := time.Now()
	for i, id := range ids {
		rows.AddRow(id, "n-"+id, "s-"+id, i, true, now, now)
	}
	return rows
}

func TestCategoryRepo_Reorder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Submitted order [c, a, b] becomes sort_order 0, 1, 2.
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

	repo := NewCategoryRepo(db)
	if err := repo.Reorder(context.Background(), []string{"c", "a", "b"}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryRepo_Reorder_MissingIDRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(0, "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE categories SET sort_order = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(1, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewCategoryRepo(db)
	err = repo.Reorder(context.Background(), []string{"a", "missing", "b"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryRepo_ListPage_Cursor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT sort_order FROM categories WHERE id = \$1`).
		WithArgs("cat-2").
		WillReturnRows(sqlmock.NewRows([]string{"sort_order"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, name, slug, sort_order, active, created_at, updated_at FROM categories WHERE sort_order > \$1 ORDER BY sort_order ASC LIMIT \$2`).
		WithArgs(int64(1), 10).
		WillReturnRows(categoryRows("cat-3"))

	repo := NewCategoryRepo(db)
	cats, more, last, err := repo.ListPage(context.Background(), 10, "cat-2")
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(cats) != 1 || more {
		t.Errorf("unexpected page: %d cats, more=%v", len(cats), more)
	}
	if last == nil || *last != "cat-3" {
		t.Errorf("unexpected lastId: %v", last)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryRepo_ListPage_DeletedCursor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT sort_order FROM categories WHERE id = \$1`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	repo := NewCategoryRepo(db)
	cats, more, last, err := repo.ListPage(context.Background(), 10, "gone")
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(cats) != 0 || more || last != nil {
		t.Errorf("expected empty page, got %d cats, more=%v, last=%v", len(cats), more, last)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
