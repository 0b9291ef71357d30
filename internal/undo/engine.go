// Package undo replays operation-log entries to reverse destructive
// mutations: a logged delete is reversed by reinserting the snapshot, a
// logged update by resetting every column to the snapshot, a logged insert
// by deleting the created row.
//
// Restores are typed per table. The snapshot JSON is decoded into the
// entity's model struct and written back through a static statement; SQL is
// never assembled from snapshot keys.
package undo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streamdesk/streamdesk/internal/metrics"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

// ErrNotFound mirrors repo.ErrNotFound for callers that only import this package.
var ErrNotFound = repo.ErrNotFound

// Engine replays and consumes operation-log entries.
type Engine struct {
	Oplog      *repo.OplogRepo
	Videos     *repo.VideoRepo
	Users      *repo.UserRepo
	Categories *repo.CategoryRepo
	Sidebar    *repo.SidebarRepo
	Articles   *repo.ArticleRepo
}

// NewEngine builds an engine with repos over the given database handle.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{
		Oplog:      repo.NewOplogRepo(db),
		Videos:     repo.NewVideoRepo(db),
		Users:      repo.NewUserRepo(db),
		Categories: repo.NewCategoryRepo(db),
		Sidebar:    repo.NewSidebarRepo(db),
		Articles:   repo.NewArticleRepo(db),
	}
}

// Undo replays the entry with the given id and deletes it on success. The
// entry survives a failed replay, so a collision (for example the row id was
// reused after a delete) can be retried once the conflict is resolved.
func (e *Engine) Undo(ctx context.Context, logID string) error {
	entry, err := e.Oplog.Get(ctx, logID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metrics.IncUndo("not_found")
		}
		return err
	}

	if err := e.replay(ctx, entry); err != nil {
		metrics.IncUndo("failed")
		return err
	}

	if err := e.Oplog.Delete(ctx, logID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	metrics.IncUndo("applied")
	return nil
}

func (e *Engine) replay(ctx context.Context, entry models.OperationLogEntry) error {
	switch entry.OperationType {
	case models.OpDelete:
		return e.restoreDeleted(ctx, entry)
	case models.OpUpdate:
		return e.restoreUpdated(ctx, entry)
	case models.OpInsert:
		return e.deleteInserted(ctx, entry)
	}
	return fmt.Errorf("undo: unknown operation %q", entry.OperationType)
}

// userSnapshot adds the password_hash column, which models.User hides from
// JSON output but which the row snapshot carries and the restore must keep.
type userSnapshot struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func (e *Engine) restoreDeleted(ctx context.Context, entry models.OperationLogEntry) error {
	if len(entry.OldData) == 0 {
		return fmt.Errorf("undo: delete entry %s has no snapshot", entry.ID)
	}
	switch entry.TableName {
	case models.TableVideos:
		var v models.Video
		if err := json.Unmarshal(entry.OldData, &v); err != nil {
			return fmt.Errorf("undo: decode video snapshot: %w", err)
		}
		return e.Videos.Reinsert(ctx, v)
	case models.TableUsers:
		var s userSnapshot
		if err := json.Unmarshal(entry.OldData, &s); err != nil {
			return fmt.Errorf("undo: decode user snapshot: %w", err)
		}
		u := s.User
		u.PasswordHash = s.PasswordHash
		return e.Users.Reinsert(ctx, u)
	case models.TableCategories:
		var c models.Category
		if err := json.Unmarshal(entry.OldData, &c); err != nil {
			return fmt.Errorf("undo: decode category snapshot: %w", err)
		}
		return e.Categories.Reinsert(ctx, c)
	case models.TableSidebarItems:
		var s models.SidebarItem
		if err := json.Unmarshal(entry.OldData, &s); err != nil {
			return fmt.Errorf("undo: decode sidebar snapshot: %w", err)
		}
		return e.Sidebar.Reinsert(ctx, s)
	case models.TableArticles:
		var a models.Article
		if err := json.Unmarshal(entry.OldData, &a); err != nil {
			return fmt.Errorf("undo: decode article snapshot: %w", err)
		}
		return e.Articles.Reinsert(ctx, a)
	}
	return fmt.Errorf("undo: unknown table %q", entry.TableName)
}

func (e *Engine) restoreUpdated(ctx context.Context, entry models.OperationLogEntry) error {
	if len(entry.OldData) == 0 {
		return fmt.Errorf("undo: update entry %s has no snapshot", entry.ID)
	}
	switch entry.TableName {
	case models.TableVideos:
		var v models.Video
		if err := json.Unmarshal(entry.OldData, &v); err != nil {
			return fmt.Errorf("undo: decode video snapshot: %w", err)
		}
		v.ID = entry.RecordID
		return e.Videos.RestoreRow(ctx, v)
	case models.TableUsers:
		var s userSnapshot
		if err := json.Unmarshal(entry.OldData, &s); err != nil {
			return fmt.Errorf("undo: decode user snapshot: %w", err)
		}
		u := s.User
		u.PasswordHash = s.PasswordHash
		u.ID = entry.RecordID
		return e.Users.RestoreRow(ctx, u)
	case models.TableCategories:
		var c models.Category
		if err := json.Unmarshal(entry.OldData, &c); err != nil {
			return fmt.Errorf("undo: decode category snapshot: %w", err)
		}
		c.ID = entry.RecordID
		return e.Categories.RestoreRow(ctx, c)
	case models.TableSidebarItems:
		var s models.SidebarItem
		if err := json.Unmarshal(entry.OldData, &s); err != nil {
			return fmt.Errorf("undo: decode sidebar snapshot: %w", err)
		}
		s.ID = entry.RecordID
		return e.Sidebar.RestoreRow(ctx, s)
	case models.TableArticles:
		var a models.Article
		if err := json.Unmarshal(entry.OldData, &a); err != nil {
			return fmt.Errorf("undo: decode article snapshot: %w", err)
		}
		a.ID = entry.RecordID
		return e.Articles.RestoreRow(ctx, a)
	}
	return fmt.Errorf("undo: unknown table %q", entry.TableName)
}

func (e *Engine) deleteInserted(ctx context.Context, entry models.OperationLogEntry) error {
	if entry.RecordID == "" {
		return fmt.Errorf("undo: insert entry %s has no record id", entry.ID)
	}
	var err error
	switch entry.TableName {
	case models.TableVideos:
		err = e.Videos.Delete(ctx, entry.RecordID)
	case models.TableUsers:
		err = e.Users.Delete(ctx, entry.RecordID)
	case models.TableCategories:
		err = e.Categories.Delete(ctx, entry.RecordID)
	case models.TableSidebarItems:
		err = e.Sidebar.Delete(ctx, entry.RecordID)
	case models.TableArticles:
		err = e.Articles.Delete(ctx, entry.RecordID)
	default:
		return fmt.Errorf("undo: unknown table %q", entry.TableName)
	}
	// The row may already be gone; undoing an insert is then a no-op.
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}
