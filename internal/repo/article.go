package repo

import (
	"context"
	"database/sql"

	"github.com/streamdesk/streamdesk/internal/models"
)

const articleColumns = `id, title, slug, content, author_id, published, created_at, updated_at`

// ArticleRepo persists blog articles.
type ArticleRepo struct {
	DB *sql.DB
}

// NewArticleRepo returns a new ArticleRepo.
func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{DB: db}
}

func scanArticle(row interface{ Scan(...any) error }) (models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.AuthorID, &a.Published,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create inserts a new article.
func (r *ArticleRepo) Create(ctx context.Context, a models.Article) (models.Article, error) {
	return scanArticle(r.DB.QueryRowContext(ctx,
		`INSERT INTO articles (id, title, slug, content, author_id, published)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+articleColumns,
		a.ID, a.Title, a.Slug, a.Content, a.AuthorID, a.Published,
	))
}

// Get returns one article by id.
func (r *ArticleRepo) Get(ctx context.Context, id string) (models.Article, error) {
	a, err := scanArticle(r.DB.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return models.Article{}, ErrNotFound
	}
	return a, err
}

// Update rewrites the editable fields of an article.
func (r *ArticleRepo) Update(ctx context.Context, a models.Article) (models.Article, error) {
	out, err := scanArticle(r.DB.QueryRowContext(ctx,
		`UPDATE articles
		 SET title = $1, slug = $2, content = $3, author_id = $4, published = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+articleColumns,
		a.Title, a.Slug, a.Content, a.AuthorID, a.Published, a.ID,
	))
	if err == sql.ErrNoRows {
		return models.Article{}, ErrNotFound
	}
	return out, err
}

// Delete removes an article by id.
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
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

// ListPage returns one page of articles, newest first, using the same cursor
// convention as videos.
func (r *ArticleRepo) ListPage(ctx context.Context, limit int, lastID string) ([]models.Article, bool, *string, error) {
	var rows *sql.Rows
	var err error

	if lastID == "" {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		var cursorAt sql.NullTime
		err = r.DB.QueryRowContext(ctx,
			`SELECT created_at FROM articles WHERE id = $1`, lastID).Scan(&cursorAt)
		if err == sql.ErrNoRows {
			return nil, false, nil, nil
		}
		if err != nil {
			return nil, false, nil, err
		}
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+articleColumns+` FROM articles WHERE created_at < $1 ORDER BY created_at DESC LIMIT $2`,
			cursorAt.Time, limit)
	}
	if err != nil {
		return nil, false, nil, err
	}
	defer rows.Close()

	var articles []models.Article
	var ids []string
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, false, nil, err
		}
		articles = append(articles, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, false, nil, err
	}
	return articles, hasMore(len(articles), limit), pageLastID(ids), nil
}

// Reinsert writes back a full row snapshot (undo of delete).
func (r *ArticleRepo) Reinsert(ctx context.Context, a models.Article) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO articles (`+articleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Title, a.Slug, a.Content, a.AuthorID, a.Published, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// RestoreRow resets every column of an existing row to a snapshot (undo of update).
func (r *ArticleRepo) RestoreRow(ctx context.Context, a models.Article) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE articles
		 SET title = $1, slug = $2, content = $3, author_id = $4, published = $5, created_at = $6, updated_at = $7
		 WHERE id = $8`,
		a.Title, a.Slug, a.Content, a.AuthorID, a.Published, a.CreatedAt, a.UpdatedAt, a.ID,
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
