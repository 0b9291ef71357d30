package models

import (
	"encoding/json"
	"time"
)

// BackupEntry is a manually requested row snapshot. Unlike the operation
// log, backups have no retention policy and are never replayed by the undo
// engine; they exist for operator-driven export and inspection.
type BackupEntry struct {
	ID        int64           `json:"id"`
	TableName Table           `json:"table_name"`
	RecordID  *string         `json:"record_id,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}
