package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/streamdesk/streamdesk/internal/models"
)

// Static per-table snapshot-insert templates for the on-demand backup
// mechanism. Same closed-enum discipline as the operation log.
var backupRowQueries = map[models.Table]string{
	models.TableVideos:       `INSERT INTO backups (table_name, record_id, data) SELECT 'videos', id, row_to_json(t) FROM videos t WHERE id = $1`,
	models.TableUsers:        `INSERT INTO backups (table_name, record_id, data) SELECT 'users', id, row_to_json(t) FROM users t WHERE id = $1`,
	models.TableCategories:   `INSERT INTO backups (table_name, record_id, data) SELECT 'categories', id, row_to_json(t) FROM categories t WHERE id = $1`,
	models.TableSidebarItems: `INSERT INTO backups (table_name, record_id, data) SELECT 'sidebar_items', id, row_to_json(t) FROM sidebar_items t WHERE id = $1`,
	models.TableArticles:     `INSERT INTO backups (table_name, record_id, data) SELECT 'articles', id, row_to_json(t) FROM articles t WHERE id = $1`,
}

var backupTableQueries = map[models.Table]string{
	models.TableVideos:       `INSERT INTO backups (table_name, record_id, data) SELECT 'videos', id, row_to_json(t) FROM videos t`,
	models.TableUsers:        `INSERT INTO backups (table_name, record_id, data) SELECT 'users', id, row_to_json(t) FROM users t`,
	models.TableCategories:   `INSERT INTO backups (table_name, record_id, data) SELECT 'categories', id, row_to_json(t) FROM categories t`,
	models.TableSidebarItems: `INSERT INTO backups (table_name, record_id, data) SELECT 'sidebar_items', id, row_to_json(t) FROM sidebar_items t`,
	models.TableArticles:     `INSERT INTO backups (table_name, record_id, data) SELECT 'articles', id, row_to_json(t) FROM articles t`,
}

// BackupRepo persists manually requested snapshots. These are separate from
// the operation log and are never consumed by the undo engine.
type BackupRepo struct {
	DB *sql.DB
}

// NewBackupRepo returns a new BackupRepo.
func NewBackupRepo(db *sql.DB) *BackupRepo {
	return &BackupRepo{DB: db}
}

// SnapshotRow backs up a single row. Returns ErrNotFound when the id does
// not exist.
func (r *BackupRepo) SnapshotRow(ctx context.Context, table models.Table, recordID string) (int64, error) {
	q, ok := backupRowQueries[table]
	if !ok {
		return 0, fmt.Errorf("backup: no snapshot query for table %q", table)
	}
	res, err := r.DB.ExecContext(ctx, q, recordID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

// SnapshotTable backs up every row of a table and returns the row count.
func (r *BackupRepo) SnapshotTable(ctx context.Context, table models.Table) (int64, error) {
	q, ok := backupTableQueries[table]
	if !ok {
		return 0, fmt.Errorf("backup: no snapshot query for table %q", table)
	}
	res, err := r.DB.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// List returns recent backups, newest first, optionally filtered to one table.
func (r *BackupRepo) List(ctx context.Context, table *models.Table, limit int) ([]models.BackupEntry, error) {
	var rows *sql.Rows
	var err error
	if table != nil {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT id, table_name, record_id, data, created_at FROM backups
			 WHERE table_name = $1 ORDER BY created_at DESC LIMIT $2`,
			string(*table), limit)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT id, table_name, record_id, data, created_at FROM backups
			 ORDER BY created_at DESC LIMIT $1`,
			limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.BackupEntry
	for rows.Next() {
		var e models.BackupEntry
		var data []byte
		if err := rows.Scan(&e.ID, &e.TableName, &e.RecordID, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = data
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
