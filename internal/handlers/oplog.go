package handlers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/streamdesk/streamdesk/internal/metrics"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
)

// recordBackup snapshots a row into the operation log before a destructive
// mutation. A failed backup never blocks the mutation; it is logged and
// counted instead of being silently discarded.
func recordBackup(ctx context.Context, oplog *repo.OplogRepo, table models.Table, op models.Operation, recordID string) {
	if oplog == nil {
		return
	}
	if err := oplog.Record(ctx, table, op, recordID); err != nil {
		metrics.IncBackupFailure()
		slog.Error("oplog backup failed",
			"table", string(table),
			"operation", string(op),
			"record_id", recordID,
			"error", err)
	}
}

// parseLimit parses a limit query value with a default and an upper bound.
func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	if val, err := strconv.Atoi(raw); err == nil && val > 0 {
		if val > max {
			return max
		}
		return val
	}
	return def
}
