package repo

import (
	"context"
	"database/sql"

	"github.com/streamdesk/streamdesk/internal/models"
)

const videoColumns = `id, title, description, video_url, thumbnail_url, duration, category_id, views, published, created_at, updated_at`

// VideoRepo persists videos.
type VideoRepo struct {
	DB *sql.DB
}

// NewVideoRepo returns a new VideoRepo.
func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{DB: db}
}

func scanVideo(row interface{ Scan(...any) error }) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
		&v.Duration, &v.CategoryID, &v.Views, &v.Published,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// Create inserts a new video and returns it with timestamps set.
func (r *VideoRepo) Create(ctx context.Context, v models.Video) (models.Video, error) {
	return scanVideo(r.DB.QueryRowContext(ctx,
		`INSERT INTO videos (id, title, description, video_url, thumbnail_url, duration, category_id, views, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+videoColumns,
		v.ID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL,
		v.Duration, v.CategoryID, v.Views, v.Published,
	))
}

// Get returns one video by id.
func (r *VideoRepo) Get(ctx context.Context, id string) (models.Video, error) {
	v, err := scanVideo(r.DB.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.Video{}, ErrNotFound
	}
	return v, err
}

// Update rewrites the editable fields of a video and returns the new row.
func (r *VideoRepo) Update(ctx context.Context, v models.Video) (models.Video, error) {
	out, err := scanVideo(r.DB.QueryRowContext(ctx,
		`UPDATE videos
		 SET title = $1, description = $2, video_url = $3, thumbnail_url = $4,
		     duration = $5, category_id = $6, views = $7, published = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING `+videoColumns,
		v.Title, v.Description, v.VideoURL, v.ThumbnailURL,
		v.Duration, v.CategoryID, v.Views, v.Published, v.ID,
	))
	if err == sql.ErrNoRows {
		return models.Video{}, ErrNotFound
	}
	return out, err
}

// Delete removes a video by id.
func (r *VideoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
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

// ListPage returns one page of videos, newest first. lastID is the cursor
// from the previous page; when its row no longer exists the page is empty.
func (r *VideoRepo) ListPage(ctx context.Context, limit int, lastID string) ([]models.Video, bool, *string, error) {
	var rows *sql.Rows
	var err error

	if lastID == "" {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		var cursorAt sql.NullTime
		err = r.DB.QueryRowContext(ctx,
			`SELECT created_at FROM videos WHERE id = $1`, lastID).Scan(&cursorAt)
		if err == sql.ErrNoRows {
			// Cursor row was deleted between pages: the cursor is invalid.
			return nil, false, nil, nil
		}
		if err != nil {
			return nil, false, nil, err
		}
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+videoColumns+` FROM videos WHERE created_at < $1 ORDER BY created_at DESC LIMIT $2`,
			cursorAt.Time, limit)
	}
	if err != nil {
		return nil, false, nil, err
	}
	defer rows.Close()

	var videos []models.Video
	var ids []string
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, false, nil, err
		}
		videos = append(videos, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, false, nil, err
	}
	return videos, hasMore(len(videos), limit), pageLastID(ids), nil
}

// Reinsert writes back a full row snapshot, timestamps included. Used by the
// undo engine to reverse a delete.
func (r *VideoRepo) Reinsert(ctx context.Context, v models.Video) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO videos (`+videoColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		v.ID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL,
		v.Duration, v.CategoryID, v.Views, v.Published,
		v.CreatedAt, v.UpdatedAt,
	)
	return err
}

// RestoreRow resets every column of an existing row to a snapshot. Used by
// the undo engine to reverse an update.
func (r *VideoRepo) RestoreRow(ctx context.Context, v models.Video) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE videos
		 SET title = $1, description = $2, video_url = $3, thumbnail_url = $4,
		     duration = $5, category_id = $6, views = $7, published = $8,
		     created_at = $9, updated_at = $10
		 WHERE id = $11`,
		v.Title, v.Description, v.VideoURL, v.ThumbnailURL,
		v.Duration, v.CategoryID, v.Views, v.Published,
		v.CreatedAt, v.UpdatedAt, v.ID,
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
