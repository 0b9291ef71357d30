package repo

import (
	"context"
	"database/sql"

	"github.com/streamdesk/streamdesk/internal/models"
)

const categoryColumns = `id, name, slug, sort_order, active, created_at, updated_at`

// CategoryRepo persists video categories.
type CategoryRepo struct {
	DB *sql.DB
}

// NewCategoryRepo returns a new CategoryRepo.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{DB: db}
}

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	return scanCategory(r.DB.QueryRowContext(ctx,
		`INSERT INTO categories (id, name, slug, sort_order, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		c.ID, c.Name, c.Slug, c.SortOrder, c.Active,
	))
}

// Get returns one category by id.
func (r *CategoryRepo) Get(ctx context.Context, id string) (models.Category, error) {
	c, err := scanCategory(r.DB.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.Category{}, ErrNotFound
	}
	return c, err
}

// Update rewrites the editable fields of a category.
func (r *CategoryRepo) Update(ctx context.Context, c models.Category) (models.Category, error) {
	out, err := scanCategory(r.DB.QueryRowContext(ctx,
		`UPDATE categories
		 SET name = $1, slug = $2, sort_order = $3, active = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+categoryColumns,
		c.Name, c.Slug, c.SortOrder, c.Active, c.ID,
	))
	if err == sql.ErrNoRows {
		return models.Category{}, ErrNotFound
	}
	return out, err
}

// Delete removes a category by id.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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

// ListPage returns one page of categories in manual order (sort_order
// ascending). The cursor resolves to the sort_order of the lastId row.
func (r *CategoryRepo) ListPage(ctx context.Context, limit int, lastID string) ([]models.Category, bool, *string, error) {
	var rows *sql.Rows
	var err error

	if lastID == "" {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+categoryColumns+` FROM categories ORDER BY sort_order ASC LIMIT $1`, limit)
	} else {
		var cursorOrder sql.NullInt64
		err = r.DB.QueryRowContext(ctx,
			`SELECT sort_order FROM categories WHERE id = $1`, lastID).Scan(&cursorOrder)
		if err == sql.ErrNoRows {
			return nil, false, nil, nil
		}
		if err != nil {
			return nil, false, nil, err
		}
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE sort_order > $1 ORDER BY sort_order ASC LIMIT $2`,
			cursorOrder.Int64, limit)
	}
	if err != nil {
		return nil, false, nil, err
	}
	defer rows.Close()

	var cats []models.Category
	var ids []string
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, false, nil, err
		}
		cats = append(cats, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, false, nil, err
	}
	return cats, hasMore(len(cats), limit), pageLastID(ids), nil
}

// Reorder rewrites sort_order for the submitted id list: each id gets its
// array index. The whole rewrite runs in one transaction; a missing id
// aborts and rolls back, leaving every sort_order untouched.
func (r *CategoryRepo) Reorder(ctx context.Context, orderedIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE categories SET sort_order = $1, updated_at = NOW() WHERE id = $2`, i, id)
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
func (r *CategoryRepo) Reinsert(ctx context.Context, c models.Category) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Slug, c.SortOrder, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// RestoreRow resets every column of an existing row to a snapshot (undo of update).
func (r *CategoryRepo) RestoreRow(ctx context.Context, c models.Category) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE categories
		 SET name = $1, slug = $2, sort_order = $3, active = $4, created_at = $5, updated_at = $6
		 WHERE id = $7`,
		c.Name, c.Slug, c.SortOrder, c.Active, c.CreatedAt, c.UpdatedAt, c.ID,
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
