package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/streamdesk/streamdesk/internal/models"
)

const oplogColumns = `id, table_name, operation_type, COALESCE(record_id, ''), old_data, created_at`

// snapshotQueries maps each covered table to a static row-snapshot query.
// The closed map (keyed by the models.Table enum) is what keeps table names
// out of SQL text construction.
var snapshotQueries = map[models.Table]string{
	models.TableVideos:       `SELECT row_to_json(t) FROM videos t WHERE id = $1`,
	models.TableUsers:        `SELECT row_to_json(t) FROM users t WHERE id = $1`,
	models.TableCategories:   `SELECT row_to_json(t) FROM categories t WHERE id = $1`,
	models.TableSidebarItems: `SELECT row_to_json(t) FROM sidebar_items t WHERE id = $1`,
	models.TableArticles:     `SELECT row_to_json(t) FROM articles t WHERE id = $1`,
}

// OplogRepo persists the recent_operations log: pre-mutation row snapshots
// with a 24-hour retention window.
type OplogRepo struct {
	DB *sql.DB
}

// NewOplogRepo returns a new OplogRepo.
func NewOplogRepo(db *sql.DB) *OplogRepo {
	return &OplogRepo{DB: db}
}

// Record writes one operation-log entry. For update and delete operations it
// snapshots the current row first; a missing row is an error. Insert entries
// carry no snapshot. After a successful write, entries past retention are
// purged best-effort.
//
// Callers must never fail their own mutation because Record failed; they log
// the error and proceed.
func (r *OplogRepo) Record(ctx context.Context, table models.Table, op models.Operation, recordID string) error {
	var oldData []byte

	switch op {
	case models.OpUpdate, models.OpDelete:
		q, ok := snapshotQueries[table]
		if !ok {
			return fmt.Errorf("oplog: no snapshot query for table %q", table)
		}
		err := r.DB.QueryRowContext(ctx, q, recordID).Scan(&oldData)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
	case models.OpInsert:
		// No snapshot: undo of an insert is a delete of the new row.
	default:
		return fmt.Errorf("oplog: unknown operation %q", op)
	}

	var data any
	if oldData != nil {
		data = oldData
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO recent_operations (id, table_name, operation_type, record_id, old_data)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), string(table), string(op), recordID, data,
	)
	if err != nil {
		return err
	}

	// Opportunistic housekeeping, not a scheduled job; failures here must
	// not surface to the write that triggered them.
	_, _ = r.PurgeExpired(ctx)
	return nil
}

// ListRecent returns entries created within the retention window, newest
// first, optionally filtered to one table.
func (r *OplogRepo) ListRecent(ctx context.Context, table *models.Table, limit int) ([]models.OperationLogEntry, error) {
	var rows *sql.Rows
	var err error
	if table != nil {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+oplogColumns+` FROM recent_operations
			 WHERE created_at > NOW() - INTERVAL '24 hours' AND table_name = $1
			 ORDER BY created_at DESC LIMIT $2`,
			string(*table), limit)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+oplogColumns+` FROM recent_operations
			 WHERE created_at > NOW() - INTERVAL '24 hours'
			 ORDER BY created_at DESC LIMIT $1`,
			limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.OperationLogEntry
	for rows.Next() {
		var e models.OperationLogEntry
		var oldData []byte
		if err := rows.Scan(&e.ID, &e.TableName, &e.OperationType, &e.RecordID, &oldData, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.OldData = oldData
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by id.
func (r *OplogRepo) Get(ctx context.Context, id string) (models.OperationLogEntry, error) {
	var e models.OperationLogEntry
	var oldData []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+oplogColumns+` FROM recent_operations WHERE id = $1`, id).
		Scan(&e.ID, &e.TableName, &e.OperationType, &e.RecordID, &oldData, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return models.OperationLogEntry{}, ErrNotFound
	}
	if err != nil {
		return models.OperationLogEntry{}, err
	}
	e.OldData = oldData
	return e, nil
}

// Delete removes one entry by id. Called after a successful undo so every
// entry is single-use.
func (r *OplogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM recent_operations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired deletes entries older than the retention window and returns
// how many were removed.
func (r *OplogRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM recent_operations WHERE created_at < NOW() - INTERVAL '24 hours'`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
