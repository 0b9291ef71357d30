package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/streamdesk/streamdesk/internal/metrics"
	"github.com/streamdesk/streamdesk/internal/repo"
)

// RunOplogSweep starts a cron job that purges expired operation-log entries
// on the given schedule (e.g. "@hourly"). The log also purges inline on every
// write, so this job only bounds staleness during quiet periods. Returns the
// cron instance so the caller can Stop it on shutdown.
func RunOplogSweep(oplog *repo.OplogRepo, cronExpr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		n, err := oplog.PurgeExpired(context.Background())
		if err != nil {
			slog.Error("oplog sweep failed", "error", err)
			return
		}
		if n > 0 {
			metrics.AddOplogPurged(n)
			slog.Info("oplog sweep", "purged", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
