package repo

import (
	"context"
	"database/sql"

	"github.com/streamdesk/streamdesk/internal/models"
)

const sidebarColumns = `id, label, href, icon, sort_order, active, created_at, updated_at`

// SidebarRepo persists sidebar navigation items.
type SidebarRepo struct {
	DB *sql.DB
}

// NewSidebarRepo returns a new SidebarRepo.
func NewSidebarRepo(db *sql.DB) *SidebarRepo {
	return &SidebarRepo{DB: db}
}

func scanSidebarItem(row interface{ Scan(...any) error }) (models.SidebarItem, error) {
	var s models.SidebarItem
	err := row.Scan(
		&s.ID, &s.Label, &s.Href, &s.Icon, &s.SortOrder, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create inserts a new sidebar item.
func (r *SidebarRepo) Create(ctx context.Context, s models.SidebarItem) (models.SidebarItem, error) {
	return scanSidebarItem(r.DB.QueryRowContext(ctx,
		`INSERT INTO sidebar_items (id, label, href, icon, sort_order, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+sidebarColumns,
		s.ID, s.Label, s.Href, s.Icon, s.SortOrder, s.Active,
	))
}

// Get returns one sidebar item by id.
func (r *SidebarRepo) Get(ctx context.Context, id string) (models.SidebarItem, error) {
	s, err := scanSidebarItem(r.DB.QueryRowContext(ctx,
		`SELECT `+sidebarColumns+` FROM sidebar_items WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.SidebarItem{}, ErrNotFound
	}
	return s, err
}

// Update rewrites the editable fields of a sidebar item.
func (r *SidebarRepo) Update(ctx context.Context, s models.SidebarItem) (models.SidebarItem, error) {
	out, err := scanSidebarItem(r.DB.QueryRowContext(ctx,
		`UPDATE sidebar_items
		 SET label = $1, href = $2, icon = $3, sort_order = $4, active = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+sidebarColumns,
		s.Label, s.Href, s.Icon, s.SortOrder, s.Active, s.ID,
	))
	if err == sql.ErrNoRows {
		return models.SidebarItem{}, ErrNotFound
	}
	return out, err
}

// Delete removes a sidebar item by id.
func (r *SidebarRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sidebar_items WHERE id = $1`, id)
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

// ListAll returns every sidebar item in manual order. The sidebar is small
// by construction, so it is not paginated.
func (r *SidebarRepo) ListAll(ctx context.Context) ([]models.SidebarItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+sidebarColumns+` FROM sidebar_items ORDER BY sort_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SidebarItem
	for rows.Next() {
		s, err := scanSidebarItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Reorder rewrites sort_order from array index in one transaction, same
// contract as CategoryRepo.Reorder.
func (r *SidebarRepo) Reorder(ctx context.Context, orderedIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE sidebar_items SET sort_order = $1, updated_at = NOW() WHERE id = $2`, i, id)
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
	}
	return tx.Commit()
}

// Reinsert writes back a full row snapshot (undo of delete).
func (r *SidebarRepo) Reinsert(ctx context.Context, s models.SidebarItem) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sidebar_items (`+sidebarColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Label, s.Href, s.Icon, s.SortOrder, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// RestoreRow resets every column of an existing row to a snapshot (undo of update).
func (r *SidebarRepo) RestoreRow(ctx context.Context, s models.SidebarItem) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE sidebar_items
		 SET label = $1, href = $2, icon = $3, sort_order = $4, active = $5, created_at = $6, updated_at = $7
		 WHERE id = $8`,
		s.Label, s.Href, s.Icon, s.SortOrder, s.Active, s.CreatedAt, s.UpdatedAt, s.ID,
	)
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
