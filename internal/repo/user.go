package repo

import (
	"context"
	"database/sql"

	"github.com/streamdesk/streamdesk/internal/models"
)

const userColumns = `id, username, password_hash, role, display_name, created_at, updated_at`

// UserRepo persists users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo returns a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.DisplayName,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, display_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.ID, u.Username, u.PasswordHash, u.Role, u.DisplayName,
	))
}

// Get returns one user by id.
func (r *UserRepo) Get(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// GetByUsername returns one user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// Update rewrites the editable fields of a user. The password hash is only
// touched when non-empty.
func (r *UserRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	out, err := scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users
		 SET username = $1, role = $2, display_name = $3,
		     password_hash = CASE WHEN $4 = '' THEN password_hash ELSE $4 END,
		     updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+userColumns,
		u.Username, u.Role, u.DisplayName, u.PasswordHash, u.ID,
	))
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	return out, err
}

// Delete removes a user by id.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

// ListPage returns one page of users, newest first, using the same cursor
// convention as videos.
func (r *UserRepo) ListPage(ctx context.Context, limit int, lastID string) ([]models.User, bool, *string, error) {
	var rows *sql.Rows
	var err error

	if lastID == "" {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		var cursorAt sql.NullTime
		err = r.DB.QueryRowContext(ctx,
			`SELECT created_at FROM users WHERE id = $1`, lastID).Scan(&cursorAt)
		if err == sql.ErrNoRows {
			return nil, false, nil, nil
		}
		if err != nil {
			return nil, false, nil, err
		}
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE created_at < $1 ORDER BY created_at DESC LIMIT $2`,
			cursorAt.Time, limit)
	}
	if err != nil {
		return nil, false, nil, err
	}
	defer rows.Close()

	var users []models.User
	var ids []string
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, false, nil, err
		}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, false, nil, err
	}
	return users, hasMore(len(users), limit), pageLastID(ids), nil
}

// Reinsert writes back a full row snapshot (undo of delete).
func (r *UserRepo) Reinsert(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.DisplayName,
		u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// RestoreRow resets every column of an existing row to a snapshot (undo of update).
func (r *UserRepo) RestoreRow(ctx context.Context, u models.User) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users
		 SET username = $1, password_hash = $2, role = $3, display_name = $4,
		     created_at = $5, updated_at = $6
		 WHERE id = $7`,
		u.Username, u.PasswordHash, u.Role, u.DisplayName,
		u.CreatedAt, u.UpdatedAt, u.ID,
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
