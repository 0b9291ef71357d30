package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Table identifies a table covered by the operation log. The set is closed:
// table names are never taken from request input and never interpolated into
// SQL. Every query against these tables is a static template selected by a
// switch on this type.
type Table string

const (
	TableVideos       Table = "videos"
	TableUsers        Table = "users"
	TableCategories   Table = "categories"
	TableSidebarItems Table = "sidebar_items"
	TableArticles     Table = "articles"
)

// ParseTable maps a wire-level table name to a Table, rejecting anything
// outside the closed set.
func ParseTable(s string) (Table, error) {
	switch Table(s) {
	case TableVideos, TableUsers, TableCategories, TableSidebarItems, TableArticles:
		return Table(s), nil
	}
	return "", fmt.Errorf("unknown table %q", s)
}

// Operation is the kind of mutation an operation-log entry captures.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// OperationLogEntry is one pre-mutation snapshot in the recent_operations
// log. OldData holds the full row as it was immediately before an update or
// delete; it is null for insert entries. Entries expire after 24 hours.
type OperationLogEntry struct {
	ID            string          `json:"id"`
	TableName     Table           `json:"table_name"`
	OperationType Operation       `json:"operation_type"`
	RecordID      string          `json:"record_id"`
	OldData       json.RawMessage `json:"old_data,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OplogRetention is how long operation-log entries stay replayable.
const OplogRetention = 24 * time.Hour
