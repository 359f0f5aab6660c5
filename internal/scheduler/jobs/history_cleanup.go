package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/finbrief/pkg/logger"
)

// Pruner deletes stored runs older than a cutoff
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryCleanupJob removes old briefing runs
type HistoryCleanupJob struct {
	pruner    Pruner
	schedule  string
	retention time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewHistoryCleanupJob creates a new history cleanup job
func NewHistoryCleanupJob(pruner Pruner, schedule string, retention time.Duration, log *logger.Logger) *HistoryCleanupJob {
	return &HistoryCleanupJob{
		pruner:    pruner,
		schedule:  schedule,
		retention: retention,
		logger:    log,
		now:       time.Now,
	}
}

// Name returns the job name
func (j *HistoryCleanupJob) Name() string {
	return "history_cleanup"
}

// Schedule returns the cron schedule (weekly)
func (j *HistoryCleanupJob) Schedule() string {
	return j.schedule
}

// Run deletes runs older than the retention period
func (j *HistoryCleanupJob) Run(ctx context.Context) error {
	if j.retention <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	removed, err := j.pruner.Prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff,
		}).Info("History cleanup completed")
	}

	return nil
}
